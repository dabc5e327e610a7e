package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/controllers"
	"github.com/lakshya189/sonicart-api/middlewares"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/forgot-password", controllers.SendPasswordResetLink)
		auth.POST("/reset-password", controllers.ResetPassword)

		auth.GET("/me", middlewares.RequireAuth(), controllers.Me)
		auth.PUT("/profile", middlewares.RequireAuth(), controllers.UpdateProfile)
		auth.PUT("/change-password", middlewares.RequireAuth(), controllers.ChangePassword)
	}
}
