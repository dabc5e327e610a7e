package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/initializers"
	"github.com/lakshya189/sonicart-api/models"
	"gorm.io/gorm"
)

// GetAddresses lists the caller's saved addresses, default first.
func GetAddresses(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var addresses []models.Address
	if err := initializers.DB.
		Where("user_id = ?", userID).
		Order("is_default desc, created_at desc").
		Find(&addresses).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch addresses", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"addresses": addresses})
}

// CreateAddress saves a new address. Making it the default clears the flag
// on the others in the same transaction.
func CreateAddress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var address models.Address
	if err := ctx.ShouldBindJSON(&address); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "street, city, state, zipCode and country are required")
		return
	}
	address.UserID = userID
	address.ID = 0

	txErr := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if txErr != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create address", txErr)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, address)
}

// UpdateAddress replaces an address the caller owns.
func UpdateAddress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	addressID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid address ID")
		return
	}

	var existing models.Address
	if err := initializers.DB.
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&existing).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Address not found")
		return
	}

	var address models.Address
	if err := ctx.ShouldBindJSON(&address); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "street, city, state, zipCode and country are required")
		return
	}

	txErr := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND id != ?", userID, existing.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&existing).Updates(map[string]any{
			"label":      address.Label,
			"street":     address.Street,
			"city":       address.City,
			"state":      address.State,
			"zip_code":   address.ZipCode,
			"country":    address.Country,
			"is_default": address.IsDefault,
		}).Error
	})
	if txErr != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update address", txErr)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, existing)
}

// DeleteAddress removes an address the caller owns. Historical orders are
// unaffected because order addresses are copies.
func DeleteAddress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	addressID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid address ID")
		return
	}

	result := initializers.DB.
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&models.Address{})
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete address", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Address not found")
		return
	}

	sendMessageResponse(ctx, http.StatusOK, "Address deleted.")
}
