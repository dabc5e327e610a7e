package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/utils"
)

// RateLimit rejects requests once the client's window allowance is spent.
func RateLimit(limiter utils.RateLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !limiter.Allow(ctx.ClientIP()) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Too many requests, try again later."})
			return
		}
		ctx.Next()
	}
}
