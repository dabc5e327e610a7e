package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/controllers"
	"github.com/lakshya189/sonicart-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/api/orders", middlewares.RequireAuth())
	{
		orders.POST("", controllers.CreateOrder)
		orders.GET("", controllers.GetOrders)
		orders.GET("/:id", controllers.GetOrderByID)
		orders.PUT("/:id/cancel", controllers.CancelOrder)

		admin := orders.Group("", middlewares.RequireAdmin())
		{
			admin.PUT("/:id/status", controllers.UpdateOrderStatus)
			admin.GET("/admin/all", controllers.GetAllOrders)
		}
	}
}
