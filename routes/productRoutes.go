package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/controllers"
	"github.com/lakshya189/sonicart-api/middlewares"
)

func ProductRoutes(server *gin.Engine) {
	products := server.Group("/api/products")
	{
		products.GET("", controllers.GetProducts)
		products.GET("/:id", controllers.GetProduct)
		products.GET("/:id/reviews", controllers.GetProductReviews)

		products.POST("/:id/reviews", middlewares.RequireAuth(), controllers.CreateReview)

		admin := products.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
		{
			admin.POST("", controllers.CreateProduct)
			admin.PUT("/:id", controllers.UpdateProduct)
			admin.DELETE("/:id", controllers.DeleteProduct)
			admin.POST("/:id/images", controllers.UploadProductImages)
		}
	}

	reviews := server.Group("/api/reviews", middlewares.RequireAuth())
	{
		reviews.PUT("/:id", controllers.UpdateReview)
		reviews.DELETE("/:id", controllers.DeleteReview)
	}
}
