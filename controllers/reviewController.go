package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/initializers"
	"github.com/lakshya189/sonicart-api/models"
	"gorm.io/gorm"
)

type ReviewData struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// GetProductReviews lists all reviews for a product, newest first.
func GetProductReviews(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var reviews []models.Review
	if err := initializers.DB.
		Where("product_id = ?", productID).
		Preload("User").
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch reviews", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"reviews": reviews})
}

// CreateReview adds the caller's review of a product. One review per user
// and product; a second attempt is a business-rule violation, not an upsert.
func CreateReview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var reviewData ReviewData
	if err := ctx.ShouldBindJSON(&reviewData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch product", err)
		}
		return
	}

	var existing models.Review
	err = initializers.DB.
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&existing).Error
	if err == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "you have already reviewed this product")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to check existing review", err)
		return
	}

	review := models.Review{
		UserID:    userID,
		ProductID: uint(productID),
		Rating:    reviewData.Rating,
		Comment:   reviewData.Comment,
	}
	if err := initializers.DB.Create(&review).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create review", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, review)
}

// UpdateReview edits the caller's own review.
func UpdateReview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	reviewID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var reviewData ReviewData
	if err := ctx.ShouldBindJSON(&reviewData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	result := initializers.DB.Model(&models.Review{}).
		Where("id = ? AND user_id = ?", reviewID, userID).
		Updates(map[string]any{"rating": reviewData.Rating, "comment": reviewData.Comment})
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update review", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Review not found")
		return
	}

	sendMessageResponse(ctx, http.StatusOK, "Review updated.")
}

// DeleteReview removes the caller's own review; admins may remove any.
func DeleteReview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	reviewID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid review ID")
		return
	}

	query := initializers.DB.Where("id = ?", reviewID)
	if !isAdmin(ctx) {
		query = query.Where("user_id = ?", userID)
	}

	result := query.Delete(&models.Review{})
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete review", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Review not found")
		return
	}

	sendMessageResponse(ctx, http.StatusOK, "Review deleted.")
}
