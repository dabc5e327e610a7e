package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/controllers"
	"github.com/lakshya189/sonicart-api/middlewares"
)

func UserRoutes(server *gin.Engine) {
	users := server.Group("/api/users", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		users.GET("", controllers.GetUsers)
		users.GET("/:id", controllers.GetUser)
		users.PUT("/:id/role", controllers.UpdateUserRole)
		users.DELETE("/:id", controllers.DeactivateUser)
	}

	addresses := server.Group("/api/addresses", middlewares.RequireAuth())
	{
		addresses.GET("", controllers.GetAddresses)
		addresses.POST("", controllers.CreateAddress)
		addresses.PUT("/:id", controllers.UpdateAddress)
		addresses.DELETE("/:id", controllers.DeleteAddress)
	}

	wishlist := server.Group("/api/wishlist", middlewares.RequireAuth())
	{
		wishlist.GET("", controllers.GetWishlist)
		wishlist.POST("", controllers.AddToWishlist)
		wishlist.DELETE("/:productId", controllers.RemoveFromWishlist)
	}
}
