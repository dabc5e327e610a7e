package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/initializers"
	"github.com/lakshya189/sonicart-api/models"
	"gorm.io/gorm"
)

// GetUsers is the admin user listing.
func GetUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}
	offset := (page - 1) * limit

	query := initializers.DB.Model(&models.User{})
	if search := ctx.Query("search"); search != "" {
		query = query.Where("email LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var users []models.User
	if result := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&users); result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch users", result.Error)
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.User{})
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("email LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	countQuery.Count(&count)

	totalPages := math.Ceil(float64(count) / float64(limit))

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"users": users,
		"metadata": gin.H{
			"total":       count,
			"currentPage": page,
			"limit":       limit,
			"hasNextPage": int(totalPages) > page,
		},
	})
}

func GetUser(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var user models.User
	if err := initializers.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "User not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch user", err)
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, user)
}

// UpdateUserRole promotes or demotes a user (admin only).
func UpdateUserRole(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var roleData struct {
		Role string `json:"role" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&roleData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if roleData.Role != models.RoleUser && roleData.Role != models.RoleAdmin {
		sendErrorResponse(ctx, http.StatusBadRequest, "role must be user or admin")
		return
	}

	result := initializers.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", roleData.Role)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update user role", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "User not found")
		return
	}

	sendMessageResponse(ctx, http.StatusOK, "User role updated.")
}

// DeactivateUser blocks a user from logging in without deleting their data.
func DeactivateUser(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result := initializers.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", false)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to deactivate user", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "User not found")
		return
	}

	sendMessageResponse(ctx, http.StatusOK, "User deactivated.")
}
