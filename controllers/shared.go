package controllers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lakshya189/sonicart-api/models"
	"github.com/lakshya189/sonicart-api/sockets"
	"github.com/lakshya189/sonicart-api/utils"
)

// Shared runtime capabilities, assigned once in main before routes go live.
var (
	Hub    *sockets.Hub
	Notify *utils.Notifier
)

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, gin.H{"success": true, "data": data})
}

func sendMessageResponse(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"success": true, "message": message})
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"success": false, "message": message})
}

func sendValidationErrors(ctx *gin.Context, status int, message string, fields map[string]string) {
	ctx.JSON(status, gin.H{"success": false, "message": message, "errors": fields})
}

// bindingErrors turns binding failures into a field-to-reason map, or nil if
// the error was not a validation error.
func bindingErrors(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}
	fields := map[string]string{}
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			fields[fieldErr.Field()] = "is required"
		case "email":
			fields[fieldErr.Field()] = "must be a valid email address"
		case "min":
			fields[fieldErr.Field()] = "must be at least " + fieldErr.Param() + " characters"
		case "max":
			fields[fieldErr.Field()] = "must be at most " + fieldErr.Param() + " characters"
		default:
			fields[fieldErr.Field()] = "is invalid"
		}
	}
	return fields
}

// respondWithError logs the cause and sends a sanitized envelope. Raw errors
// never reach clients.
func respondWithError(ctx *gin.Context, status int, message string, err error) {
	if err != nil {
		log.Printf("%s: %v", message, err)
	}
	sendErrorResponse(ctx, status, message)
}

func currentClaims(ctx *gin.Context) (jwt.MapClaims, bool) {
	raw, exists := ctx.Get("user")
	if !exists {
		return nil, false
	}
	claims, ok := raw.(jwt.MapClaims)
	return claims, ok
}

func currentUserID(ctx *gin.Context) (uint, bool) {
	claims, ok := currentClaims(ctx)
	if !ok {
		return 0, false
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return uint(id), true
}

func isAdmin(ctx *gin.Context) bool {
	claims, ok := currentClaims(ctx)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == models.RoleAdmin
}
