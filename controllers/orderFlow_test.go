package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/initializers"
	"github.com/lakshya189/sonicart-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func checkoutBody() CreateOrderData {
	return CreateOrderData{
		ShippingAddress: validAddressData(),
		BillingAddress:  validAddressData(),
		PaymentMethod:   models.PaymentMethodCOD,
	}
}

func orderIDParam(order models.Order) gin.Params {
	return gin.Params{{Key: "id", Value: strconv.FormatUint(uint64(order.ID), 10)}}
}

func productStock(t *testing.T, productID uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, initializers.DB.First(&product, productID).Error)
	return product.Stock
}

func TestCreateOrderPlacesOrderAndConsumesCart(t *testing.T) {
	user := seedUser(t)
	product := seedProduct(t, 60.00, 5)
	seedCartLine(t, user.ID, product.ID, 2)

	recorder := performAuthed(t, user, CreateOrder, http.MethodPost, "/api/orders", checkoutBody(), nil)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var order models.Order
	require.NoError(t, initializers.DB.
		Preload("OrderItems").Preload("Addresses").
		Where("user_id = ?", user.ID).
		First(&order).Error)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 120.00, order.Subtotal)
	assert.Equal(t, 9.60, order.Tax)
	assert.Equal(t, 0.0, order.Shipping)
	assert.Equal(t, 129.60, order.Total)
	assert.Len(t, order.Addresses, 2)

	require.Len(t, order.OrderItems, 1)
	item := order.OrderItems[0]
	assert.Equal(t, product.Name, item.Name)
	assert.Equal(t, 60.00, item.Price)
	assert.Equal(t, 2, item.Quantity)

	assert.Equal(t, 3, productStock(t, product.ID))

	var cartCount int64
	initializers.DB.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount)
	assert.Zero(t, cartCount, "checkout must consume the cart")
}

func TestOrderItemSnapshotSurvivesCatalogEdits(t *testing.T) {
	user := seedUser(t)
	product := seedProduct(t, 25.00, 5)
	seedCartLine(t, user.ID, product.ID, 1)

	recorder := performAuthed(t, user, CreateOrder, http.MethodPost, "/api/orders", checkoutBody(), nil)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	require.NoError(t, initializers.DB.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{"price": 99.99, "name": "Renamed"}).Error)

	var item models.OrderItem
	require.NoError(t, initializers.DB.Where("product_id = ?", product.ID).First(&item).Error)
	assert.Equal(t, 25.00, item.Price, "order item price must not follow catalog edits")
	assert.Equal(t, product.Name, item.Name, "order item name must not follow catalog edits")
}

func TestCreateOrderRollsBackWhenLineInsertFails(t *testing.T) {
	require.NoError(t, initializers.DB.Migrator().DropTable(&models.OrderItem{}))
	defer func() {
		require.NoError(t, initializers.DB.Migrator().CreateTable(&models.OrderItem{}))
	}()

	user := seedUser(t)
	product := seedProduct(t, 15.00, 4)
	seedCartLine(t, user.ID, product.ID, 1)

	recorder := performAuthed(t, user, CreateOrder, http.MethodPost, "/api/orders", checkoutBody(), nil)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var orderCount int64
	initializers.DB.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orderCount)
	assert.Zero(t, orderCount, "failed checkout must not leave an order behind")

	assert.Equal(t, 4, productStock(t, product.ID), "failed checkout must not consume stock")

	var cartCount int64
	initializers.DB.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount)
	assert.Equal(t, int64(1), cartCount, "failed checkout must leave the cart intact")
}

func TestConcurrentCheckoutOfLastUnit(t *testing.T) {
	first := seedUser(t)
	second := seedUser(t)
	product := seedProduct(t, 40.00, 1)
	seedCartLine(t, first.ID, product.ID, 1)
	seedCartLine(t, second.ID, product.ID, 1)

	codes := make([]int, 2)
	bodies := make([]string, 2)
	var wg sync.WaitGroup
	for i, user := range []models.User{first, second} {
		wg.Add(1)
		go func(i int, user models.User) {
			defer wg.Done()
			recorder := performAuthed(t, user, CreateOrder, http.MethodPost, "/api/orders", checkoutBody(), nil)
			codes[i] = recorder.Code
			bodies[i] = recorder.Body.String()
		}(i, user)
	}
	wg.Wait()

	var created, rejected int
	for i, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			rejected++
			assert.Contains(t, bodies[i], "insufficient stock")
		default:
			t.Fatalf("unexpected status %d: %s", code, bodies[i])
		}
	}
	assert.Equal(t, 1, created, "exactly one checkout may win the last unit")
	assert.Equal(t, 1, rejected)

	assert.Equal(t, 0, productStock(t, product.ID), "stock must never go negative")

	var orderCount int64
	initializers.DB.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&orderCount)
	assert.Equal(t, int64(1), orderCount)
}

func TestCancelOrderTwiceRestocksOnce(t *testing.T) {
	user := seedUser(t)
	product := seedProduct(t, 30.00, 3)
	order := seedOrder(t, user.ID, models.OrderStatusPending, []models.OrderItem{
		{ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 2},
	})

	recorder := performAuthed(t, user, CancelOrder, http.MethodPut, "/api/orders/cancel", nil, orderIDParam(order))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, 5, productStock(t, product.ID))

	recorder = performAuthed(t, user, CancelOrder, http.MethodPut, "/api/orders/cancel", nil, orderIDParam(order))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, 5, productStock(t, product.ID), "a second cancel must not restock again")
}

func TestCancelOrderGuardedAgainstStaleStatus(t *testing.T) {
	user := seedUser(t)
	product := seedProduct(t, 30.00, 0)
	order := seedOrder(t, user.ID, models.OrderStatusPending, []models.OrderItem{
		{ProductID: product.ID, Name: product.Name, Price: product.Price, Quantity: 2},
	})

	var stale models.Order
	require.NoError(t, initializers.DB.Preload("OrderItems").First(&stale, order.ID).Error)

	// Another request cancels between the read above and the transaction.
	require.NoError(t, initializers.DB.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", models.OrderStatusCancelled).Error)

	err := cancelOrderAndRestock(initializers.DB, stale)
	assert.True(t, errors.Is(err, errOrderStatusChanged))
	assert.Equal(t, 0, productStock(t, product.ID), "losing cancel must not restock")
}

func TestTransitionOrderStatusGuardedAgainstStaleStatus(t *testing.T) {
	user := seedUser(t)
	order := seedOrder(t, user.ID, models.OrderStatusPending, nil)

	var stale models.Order
	require.NoError(t, initializers.DB.First(&stale, order.ID).Error)

	require.NoError(t, initializers.DB.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", models.OrderStatusProcessing).Error)

	err := transitionOrderStatus(initializers.DB, stale, models.OrderStatusProcessing)
	assert.True(t, errors.Is(err, errOrderStatusChanged))

	var fresh models.Order
	require.NoError(t, initializers.DB.First(&fresh, order.ID).Error)
	require.NoError(t, transitionOrderStatus(initializers.DB, fresh, models.OrderStatusShipped))

	require.NoError(t, initializers.DB.First(&fresh, order.ID).Error)
	assert.Equal(t, models.OrderStatusShipped, fresh.Status)
}

func TestApplyOrderLineReportsLiveStock(t *testing.T) {
	product := seedProduct(t, 10.00, 1)

	staleProduct := product
	staleProduct.Stock = 5
	line := models.CartItem{
		ProductID: product.ID,
		Quantity:  3,
		Product:   &staleProduct,
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		return applyOrderLine(tx, 0, line)
	})

	var stockErr *stockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available, "rejection must report the stock inside the transaction, not the stale read")
	assert.Equal(t, 1, productStock(t, product.ID))
}
