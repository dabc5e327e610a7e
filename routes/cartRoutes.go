package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/controllers"
	"github.com/lakshya189/sonicart-api/middlewares"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/api/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("", controllers.AddToCart)
		cart.PUT("/:itemId", controllers.UpdateCartItem)
		cart.DELETE("/:itemId", controllers.RemoveCartItem)
		cart.DELETE("", controllers.ClearCart)
	}
}
