package models

import "gorm.io/gorm"

type CartItem struct {
	gorm.Model
	UserID    uint     `json:"userId" gorm:"uniqueIndex:idx_cart_user_product"`
	ProductID uint     `json:"productId" gorm:"uniqueIndex:idx_cart_user_product"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

type AddToCartData struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemData struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}
