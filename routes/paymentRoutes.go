package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/controllers"
	"github.com/lakshya189/sonicart-api/middlewares"
)

func PaymentRoutes(server *gin.Engine) {
	payments := server.Group("/api/payments")
	{
		payments.GET("/methods", controllers.GetPaymentMethods)
		// Webhook authenticates itself through its signature header.
		payments.POST("/webhook", controllers.HandleWebhook)

		auth := payments.Group("", middlewares.RequireAuth())
		{
			auth.POST("/create-payment-intent", controllers.CreatePaymentIntent)
			auth.POST("/confirm", controllers.ConfirmPayment)
			auth.POST("/paypal/create", controllers.CreatePayPalOrder)
			auth.POST("/paypal/capture", controllers.CapturePayPalOrder)
		}
	}
}
