package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the SoniCart API ❤️.

The following are the endpoint groups for this API:

AUTH        /api/auth       - register, login, me, profile, change-password, forgot-password, reset-password
PRODUCTS    /api/products   - catalog browsing, reviews, admin management
CATEGORIES  /api/categories - category browsing, admin management
CART        /api/cart       - cart lines and totals
ORDERS      /api/orders     - checkout, tracking, cancellation, admin status updates
PAYMENTS    /api/payments   - payment intents, PayPal, webhook, methods
USERS       /api/users      - admin user management
ADDRESSES   /api/addresses  - saved addresses
WISHLIST    /api/wishlist   - wishlist
REALTIME    /ws             - stock and order status events`

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}
