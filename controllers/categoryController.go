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

func GetCategories(ctx *gin.Context) {
	query := initializers.DB.Order("name asc")
	if ctx.Query("includeInactive") != "true" || !isAdmin(ctx) {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch categories", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"categories": categories})
}

func GetCategory(ctx *gin.Context) {
	idOrSlug := ctx.Param("id")

	query := initializers.DB
	if categoryID, err := strconv.Atoi(idOrSlug); err == nil {
		query = query.Where("id = ?", categoryID)
	} else {
		query = query.Where("slug = ?", idOrSlug)
	}

	var category models.Category
	if err := query.First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Category not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve category", err)
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, category)
}

func CreateCategory(ctx *gin.Context) {
	var category models.Category
	if err := ctx.ShouldBindJSON(&category); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	if category.Slug == "" {
		category.Slug = slugify(category.Name)
	}

	if err := initializers.DB.Create(&category).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create category", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, category)
}

func UpdateCategory(ctx *gin.Context) {
	categoryID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var category models.Category
	if err := initializers.DB.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Category not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch category", err)
		}
		return
	}

	var updateData struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Image       string `json:"image"`
		IsActive    *bool  `json:"isActive"`
	}
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	updates := map[string]any{}
	if updateData.Name != "" {
		updates["name"] = updateData.Name
	}
	if updateData.Slug != "" {
		updates["slug"] = updateData.Slug
	}
	if updateData.Description != "" {
		updates["description"] = updateData.Description
	}
	if updateData.Image != "" {
		updates["image"] = updateData.Image
	}
	if updateData.IsActive != nil {
		updates["is_active"] = *updateData.IsActive
	}

	if err := initializers.DB.Model(&category).Updates(updates).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update category", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, category)
}

func DeleteCategory(ctx *gin.Context) {
	categoryID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid category ID")
		return
	}

	result := initializers.DB.Model(&models.Category{}).
		Where("id = ?", categoryID).
		Update("is_active", false)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete category", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Category not found")
		return
	}

	sendMessageResponse(ctx, http.StatusOK, "Category removed.")
}
