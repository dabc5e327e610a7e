package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	Name        string `json:"name" binding:"required" gorm:"uniqueIndex;size:191"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:191"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    bool   `json:"isActive" gorm:"default:true"`
}

type Product struct {
	gorm.Model
	Name         string         `json:"name" binding:"required"`
	Slug         string         `json:"slug" gorm:"uniqueIndex;size:191"`
	Description  string         `json:"description"`
	Price        float64        `json:"price" binding:"required,gt=0"`
	ComparePrice float64        `json:"comparePrice"`
	SKU          string         `json:"sku" gorm:"uniqueIndex;size:64"`
	Stock        int            `json:"stock" binding:"gte=0"`
	Images       datatypes.JSON `json:"images"`
	IsActive     bool           `json:"isActive" gorm:"default:true"`
	IsFeatured   bool           `json:"isFeatured"`
	CategoryID   uint           `json:"categoryId" gorm:"index"`
	Category     *Category      `json:"category,omitempty"`
}

type Review struct {
	gorm.Model
	UserID    uint    `json:"userId" gorm:"uniqueIndex:idx_review_user_product"`
	ProductID uint    `json:"productId" gorm:"uniqueIndex:idx_review_user_product"`
	Rating    int     `json:"rating"`
	Comment   string  `json:"comment"`
	User      *User   `json:"user,omitempty"`
}

type WishlistItem struct {
	gorm.Model
	UserID    uint     `json:"userId" gorm:"uniqueIndex:idx_wishlist_user_product"`
	ProductID uint     `json:"productId" gorm:"uniqueIndex:idx_wishlist_user_product"`
	Product   *Product `json:"product,omitempty"`
}
