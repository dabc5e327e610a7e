package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/initializers"
	"github.com/lakshya189/sonicart-api/models"
	"github.com/lakshya189/sonicart-api/utils"
	"gorm.io/gorm"
)

func fetchCartItems(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := initializers.DB.
		Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at asc").
		Find(&items).Error
	return items, err
}

func cartSubtotal(items []models.CartItem) float64 {
	var subtotal float64
	for _, item := range items {
		if item.Product != nil {
			subtotal += item.Product.Price * float64(item.Quantity)
		}
	}
	return subtotal
}

func insufficientStockMessage(product models.Product, requested int) string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		product.Name, requested, product.Stock)
}

// GetCart returns the cart lines with a summary recomputed from live product
// prices on every read. Nothing here is cached or stored.
func GetCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	items, err := fetchCartItems(userID)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch cart", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"items":   items,
		"summary": utils.Summarize(cartSubtotal(items)),
	})
}

// AddToCart increments an existing line for the product or inserts a new one.
func AddToCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var cartData models.AddToCartData
	if err := ctx.ShouldBindJSON(&cartData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, cartData.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch product", err)
		}
		return
	}
	if !product.IsActive {
		sendErrorResponse(ctx, http.StatusBadRequest, "This product is no longer available")
		return
	}

	var existing models.CartItem
	err := initializers.DB.
		Where("user_id = ? AND product_id = ?", userID, cartData.ProductID).
		First(&existing).Error

	if err == nil {
		newQuantity := existing.Quantity + cartData.Quantity
		if product.Stock < newQuantity {
			sendErrorResponse(ctx, http.StatusBadRequest, insufficientStockMessage(product, newQuantity))
			return
		}
		existing.Quantity = newQuantity
		if err := initializers.DB.Save(&existing).Error; err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to update cart item quantity", err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"message": product.Name + " quantity updated in cart",
			"id":      existing.ID,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch cart item", err)
		return
	}

	if product.Stock < cartData.Quantity {
		sendErrorResponse(ctx, http.StatusBadRequest, insufficientStockMessage(product, cartData.Quantity))
		return
	}

	cartItem := models.CartItem{
		UserID:    userID,
		ProductID: cartData.ProductID,
		Quantity:  cartData.Quantity,
	}
	if err := initializers.DB.Create(&cartItem).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create cart item", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": product.Name + " added to cart",
		"data":    gin.H{"id": cartItem.ID},
	})
}

// UpdateCartItem sets the quantity of a line the caller owns.
func UpdateCartItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("itemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	var updateData models.UpdateCartItemData
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	var item models.CartItem
	if err := initializers.DB.
		Where("id = ? AND user_id = ?", itemID, userID).
		Preload("Product").
		First(&item).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		return
	}

	if item.Product != nil && item.Product.Stock < updateData.Quantity {
		sendErrorResponse(ctx, http.StatusBadRequest, insufficientStockMessage(*item.Product, updateData.Quantity))
		return
	}

	if err := initializers.DB.Model(&item).Update("quantity", updateData.Quantity).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to update cart item quantity", err)
		return
	}

	sendMessageResponse(ctx, http.StatusOK, "Cart item quantity updated")
}

// RemoveCartItem deletes a single line the caller owns.
func RemoveCartItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("itemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	result := initializers.DB.
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to remove cart item", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		return
	}

	sendMessageResponse(ctx, http.StatusOK, "Cart item removed")
}

// ClearCart empties the caller's cart.
func ClearCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	if err := initializers.DB.
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to clear cart", err)
		return
	}

	sendMessageResponse(ctx, http.StatusOK, "Cart cleared")
}
