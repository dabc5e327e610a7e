package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/controllers"
	"github.com/lakshya189/sonicart-api/middlewares"
)

func CategoryRoutes(server *gin.Engine) {
	categories := server.Group("/api/categories")
	{
		categories.GET("", controllers.GetCategories)
		categories.GET("/:id", controllers.GetCategory)

		admin := categories.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
		{
			admin.POST("", controllers.CreateCategory)
			admin.PUT("/:id", controllers.UpdateCategory)
			admin.DELETE("/:id", controllers.DeleteCategory)
		}
	}
}
