package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lakshya189/sonicart-api/initializers"
	"github.com/lakshya189/sonicart-api/models"
	"github.com/lakshya189/sonicart-api/sockets"
	"github.com/lakshya189/sonicart-api/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestMain stands the package up against an in-memory database. A single
// connection keeps SQLite's locking out of the picture: transactions
// serialize exactly as row locks would make them on MySQL.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:controllers?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.Review{},
		&models.WishlistItem{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderAddress{},
	); err != nil {
		panic(err)
	}

	initializers.DB = db
	Hub = sockets.NewHub()
	Notify = utils.NewNotifier(64)

	os.Exit(m.Run())
}

var seedSequence atomic.Int64

func nextSeed() int64 {
	return seedSequence.Add(1)
}

func seedUser(t *testing.T) models.User {
	t.Helper()
	user := models.User{
		Name:     "Test Shopper",
		Email:    fmt.Sprintf("shopper-%d@example.com", nextSeed()),
		Password: "not-a-real-hash",
		Role:     models.RoleUser,
		IsActive: true,
	}
	require.NoError(t, initializers.DB.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, price float64, stock int) models.Product {
	t.Helper()
	n := nextSeed()
	product := models.Product{
		Name:     fmt.Sprintf("Test Product %d", n),
		Slug:     fmt.Sprintf("test-product-%d", n),
		SKU:      fmt.Sprintf("TP-%d", n),
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, initializers.DB.Create(&product).Error)
	return product
}

func seedCartLine(t *testing.T, userID, productID uint, quantity int) {
	t.Helper()
	require.NoError(t, initializers.DB.Create(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}).Error)
}

func seedOrder(t *testing.T, userID uint, status string, items []models.OrderItem) models.Order {
	t.Helper()
	order := models.Order{
		OrderNumber:   newOrderNumber(),
		UserID:        userID,
		Status:        status,
		PaymentMethod: models.PaymentMethodCOD,
		PaymentStatus: models.PaymentStatusPending,
		OrderItems:    items,
	}
	require.NoError(t, initializers.DB.Create(&order).Error)
	return order
}

// performAuthed invokes a handler the way the router would after RequireAuth,
// with the user's claims already in the context.
func performAuthed(t *testing.T, user models.User, handler gin.HandlerFunc, method, path string, body any, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(method, path, reader)
	ctx.Request.Header.Set("Content-Type", "application/json")
	ctx.Params = params
	ctx.Set("user", jwt.MapClaims{
		"user_id": float64(user.ID),
		"email":   user.Email,
		"name":    user.Name,
		"role":    user.Role,
	})

	handler(ctx)
	return recorder
}

func perform(t *testing.T, handler gin.HandlerFunc, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(method, path, reader)
	ctx.Request.Header.Set("Content-Type", "application/json")

	handler(ctx)
	return recorder
}

func responseMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Message
}
