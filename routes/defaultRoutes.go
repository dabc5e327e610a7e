package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/controllers"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
}
