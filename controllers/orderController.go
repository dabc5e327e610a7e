package controllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lakshya189/sonicart-api/initializers"
	"github.com/lakshya189/sonicart-api/models"
	"github.com/lakshya189/sonicart-api/utils"
	"gorm.io/gorm"
)

type OrderAddressData struct {
	FullName string `json:"fullName"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

type CreateOrderData struct {
	ShippingAddress OrderAddressData `json:"shippingAddress" binding:"required"`
	BillingAddress  OrderAddressData `json:"billingAddress" binding:"required"`
	PaymentMethod   string           `json:"paymentMethod" binding:"required"`
	PaymentIntentID string           `json:"paymentIntentId"`
	Notes           string           `json:"notes"`
}

// stockError marks a business-rule rejection inside the checkout transaction
// so it maps to a 400 instead of a 500.
type stockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *stockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// errOrderStatusChanged signals that a status transition lost the race: the
// order left the expected status between the handler's read and the guarded
// update.
var errOrderStatusChanged = errors.New("order status has changed, please refresh and try again")

// validateOrderAddress reports the first missing required field by name.
func validateOrderAddress(kind string, addr OrderAddressData) error {
	fields := []struct {
		name  string
		value string
	}{
		{"street", addr.Street},
		{"city", addr.City},
		{"state", addr.State},
		{"zipCode", addr.ZipCode},
		{"country", addr.Country},
	}
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s address is missing required field: %s", kind, field.name)
		}
	}
	return nil
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

func orderAddressRow(orderID uint, addrType string, addr OrderAddressData) models.OrderAddress {
	return models.OrderAddress{
		OrderID:  orderID,
		Type:     addrType,
		FullName: addr.FullName,
		Street:   addr.Street,
		City:     addr.City,
		State:    addr.State,
		ZipCode:  addr.ZipCode,
		Country:  addr.Country,
		Phone:    addr.Phone,
	}
}

// resolveCardPaymentStatus decides the payment status of a card order. When a
// Stripe key is configured the intent is fetched and must belong to the
// caller; the snapshot behavior (trust the client, mark PAID) only applies
// when verification is not configured at all.
func resolveCardPaymentStatus(userID uint, intentID string) (string, error) {
	if os.Getenv("STRIPE_SECRET_KEY") == "" {
		return models.PaymentStatusPaid, nil
	}
	if intentID == "" {
		return "", errors.New("paymentIntentId is required for card payments")
	}

	intent, err := fetchPaymentIntent(intentID)
	if err != nil {
		return "", errors.New("unable to verify payment intent")
	}
	if intent.Metadata["user_id"] != strconv.FormatUint(uint64(userID), 10) {
		return "", errors.New("payment intent does not belong to this user")
	}
	if intent.Status == "succeeded" {
		return models.PaymentStatusPaid, nil
	}
	return models.PaymentStatusPending, nil
}

func sendOrderConfirmationEmail(user models.User, order models.Order) error {
	emailData := utils.EmailData{
		Name:        user.Name,
		Message:     "Thank you for your order! We'll let you know as soon as it ships.",
		ActionURL:   os.Getenv("FRONTEND_URL") + "/orders/" + strconv.FormatUint(uint64(order.ID), 10),
		LogoURL:     os.Getenv("FRONTEND_URL") + "/images/logo.png",
		OrderNumber: order.OrderNumber,
		OrderTotal:  fmt.Sprintf("$%.2f", order.Total),
	}

	templatePath := filepath.Join("templates", "order_confirmation.html")
	return utils.SendEmail(user.Email, "Order Confirmation "+order.OrderNumber, emailData, templatePath)
}

func sendOrderCancelledEmail(user models.User, order models.Order) error {
	emailData := utils.EmailData{
		Name:        user.Name,
		Message:     "Your order has been cancelled. Any reserved items have been returned to stock.",
		ActionURL:   os.Getenv("FRONTEND_URL") + "/orders/" + strconv.FormatUint(uint64(order.ID), 10),
		LogoURL:     os.Getenv("FRONTEND_URL") + "/images/logo.png",
		OrderNumber: order.OrderNumber,
		OrderTotal:  fmt.Sprintf("$%.2f", order.Total),
	}

	templatePath := filepath.Join("templates", "order_cancelled.html")
	return utils.SendEmail(user.Email, "Order Cancelled "+order.OrderNumber, emailData, templatePath)
}

// broadcastStockLevels re-reads the current stock for each product and pushes
// it to connected clients. Runs on the notifier queue, never on the request.
func broadcastStockLevels(productIDs []uint) {
	var products []models.Product
	if err := initializers.DB.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		log.Println("Failed to load products for stock broadcast:", err)
		return
	}
	for _, product := range products {
		Hub.BroadcastProductStock(product.ID, product.Stock)
	}
}

// CreateOrder turns the caller's cart into an order. Everything between the
// order header and the cart wipe happens in one transaction: on any failure
// no stock is decremented, no rows are created and the cart is untouched.
func CreateOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var orderData CreateOrderData
	if err := ctx.ShouldBindJSON(&orderData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validateOrderAddress("shipping", orderData.ShippingAddress); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateOrderAddress("billing", orderData.BillingAddress); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}
	if !models.IsValidPaymentMethod(orderData.PaymentMethod) {
		sendErrorResponse(ctx, http.StatusBadRequest, "unsupported payment method: "+orderData.PaymentMethod)
		return
	}

	cartItems, err := fetchCartItems(userID)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch cart", err)
		return
	}
	if len(cartItems) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "cart is empty")
		return
	}

	// Pre-check against the stock we can see; the authoritative check is the
	// guarded decrement inside the transaction.
	for _, item := range cartItems {
		if item.Product == nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "a product in your cart no longer exists")
			return
		}
		if !item.Product.IsActive {
			sendErrorResponse(ctx, http.StatusBadRequest, item.Product.Name+" is no longer available")
			return
		}
		if item.Product.Stock < item.Quantity {
			sendErrorResponse(ctx, http.StatusBadRequest, insufficientStockMessage(*item.Product, item.Quantity))
			return
		}
	}

	summary := utils.Summarize(cartSubtotal(cartItems))

	paymentStatus := models.PaymentStatusPending
	if orderData.PaymentMethod == models.PaymentMethodCard {
		paymentStatus, err = resolveCardPaymentStatus(userID, orderData.PaymentIntentID)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
			return
		}
	}

	order := models.Order{
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		PaymentMethod:   orderData.PaymentMethod,
		PaymentStatus:   paymentStatus,
		PaymentIntentID: orderData.PaymentIntentID,
		Subtotal:        summary.Subtotal,
		Tax:             summary.Tax,
		Shipping:        summary.Shipping,
		Total:           summary.Total,
		Notes:           orderData.Notes,
	}

	var productIDs []uint

	txErr := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		shipping := orderAddressRow(order.ID, models.AddressTypeShipping, orderData.ShippingAddress)
		billing := orderAddressRow(order.ID, models.AddressTypeBilling, orderData.BillingAddress)
		if err := tx.Create(&shipping).Error; err != nil {
			return err
		}
		if err := tx.Create(&billing).Error; err != nil {
			return err
		}

		for _, item := range cartItems {
			if err := applyOrderLine(tx, order.ID, item); err != nil {
				return err
			}
			productIDs = append(productIDs, item.ProductID)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return nil
	})

	if txErr != nil {
		var stockErr *stockError
		if errors.As(txErr, &stockErr) {
			sendErrorResponse(ctx, http.StatusBadRequest, stockErr.Error())
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create order", txErr)
		return
	}

	var created models.Order
	if err := initializers.DB.Preload("OrderItems").Preload("Addresses").First(&created, order.ID).Error; err != nil {
		// The order committed; respond with what we have.
		log.Println("Failed to reload created order:", err)
		created = order
	}

	// Best-effort side effects, after commit. Their failure never reaches
	// the response.
	Notify.Dispatch(func() {
		broadcastStockLevels(productIDs)

		var user models.User
		if err := initializers.DB.First(&user, userID).Error; err != nil {
			log.Println("Failed to load user for confirmation email:", err)
			return
		}
		if err := sendOrderConfirmationEmail(user, created); err != nil {
			log.Println("Error sending order confirmation email:", err)
		}
	})

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully.",
		"data":    gin.H{"order": created},
	})
}

// GetOrders lists the caller's own orders, newest first.
func GetOrders(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.
		Preload("OrderItems").
		Preload("Addresses").
		Where("user_id = ?", userID)

	if search := ctx.Query("search"); search != "" {
		query = query.Where("order_number LIKE ?", "%"+search+"%")
	}

	var orders []models.Order
	if result := query.Order("created_at " + sortOrder).Find(&orders); result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch orders", result.Error)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

// GetAllOrders is the admin listing with pagination and order-number search.
func GetAllOrders(ctx *gin.Context) {
	var orders []models.Order

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.Preload("OrderItems").Preload("Addresses")
	if search := ctx.Query("search"); search != "" {
		query = query.Where("order_number LIKE ?", "%"+search+"%")
	}
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	result := query.Order("created_at " + sortOrder).Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", result.Error)
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Order{})
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("order_number LIKE ?", "%"+search+"%")
	}
	if status := ctx.Query("status"); status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	countQuery.Count(&count)

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

// GetOrderByID returns a single order to its owner or an admin.
func GetOrderByID(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	var order models.Order
	result := initializers.DB.Preload("OrderItems").Preload("Addresses").First(&order, orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch order", result.Error)
		}
		return
	}

	if order.UserID != userID && !isAdmin(ctx) {
		sendErrorResponse(ctx, http.StatusForbidden, "You do not have access to this order")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// applyOrderLine decrements stock for one cart line and snapshots it as an
// order item. The stock check and the write are one statement, so two
// concurrent checkouts can never both succeed on the last unit. On rejection
// the error reports the stock as it stands inside the transaction, not the
// possibly stale value the cart was read with.
func applyOrderLine(tx *gorm.DB, orderID uint, item models.CartItem) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var current models.Product
		if err := tx.Select("name", "stock").First(&current, item.ProductID).Error; err != nil {
			return err
		}
		return &stockError{
			ProductName: current.Name,
			Requested:   item.Quantity,
			Available:   current.Stock,
		}
	}

	orderItem := models.OrderItem{
		OrderID:   orderID,
		ProductID: item.ProductID,
		Name:      item.Product.Name,
		Price:     item.Product.Price,
		Quantity:  item.Quantity,
	}
	return tx.Create(&orderItem).Error
}

// restockOrderItems returns an order's quantities to product stock. Used by
// cancellation paths, inside their transaction.
func restockOrderItems(tx *gorm.DB, order models.Order) error {
	for _, item := range order.OrderItems {
		result := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
		if result.Error != nil {
			return result.Error
		}
	}
	return nil
}

// transitionOrderStatus applies an already validated status move. The update
// is guarded on the status the handler read, so a concurrent transition makes
// exactly one of the racers win; the loser sees errOrderStatusChanged and no
// restock happens twice.
func transitionOrderStatus(db *gorm.DB, order models.Order, newStatus string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": newStatus}
		if newStatus == models.OrderStatusRefunded {
			updates["payment_status"] = models.PaymentStatusRefunded
		}
		result := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errOrderStatusChanged
		}
		if newStatus == models.OrderStatusCancelled {
			return restockOrderItems(tx, order)
		}
		return nil
	})
}

// cancelOrderAndRestock flips the order to CANCELLED and returns its items to
// stock. The flip is guarded on the still-cancellable statuses, so two racing
// cancels restock at most once.
func cancelOrderAndRestock(db *gorm.DB, order models.Order) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", order.ID,
				[]string{models.OrderStatusPending, models.OrderStatusProcessing}).
			Update("status", models.OrderStatusCancelled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errOrderStatusChanged
		}
		return restockOrderItems(tx, order)
	})
}

// UpdateOrderStatus is the admin transition endpoint. Only moves allowed by
// the status machine are accepted; CANCELLED restocks, REFUNDED requires the
// order to have been paid.
func UpdateOrderStatus(ctx *gin.Context) {
	var statusData struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&statusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	if !models.IsValidOrderStatus(statusData.Status) {
		sendErrorResponse(ctx, http.StatusBadRequest, "unknown order status: "+statusData.Status)
		return
	}

	var order models.Order
	if err := initializers.DB.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch order", err)
		}
		return
	}

	if !models.CanTransitionOrderStatus(order.Status, statusData.Status) {
		sendErrorResponse(ctx, http.StatusBadRequest,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, statusData.Status))
		return
	}
	if statusData.Status == models.OrderStatusRefunded && order.PaymentStatus != models.PaymentStatusPaid {
		sendErrorResponse(ctx, http.StatusBadRequest, "only paid orders can be refunded")
		return
	}

	if err := transitionOrderStatus(initializers.DB, order, statusData.Status); err != nil {
		if errors.Is(err, errOrderStatusChanged) {
			sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update order status", err)
		return
	}

	dispatchOrderStatusSideEffects(order, statusData.Status)

	sendMessageResponse(ctx, http.StatusOK, "Order status updated successfully.")
}

// CancelOrder lets the purchaser cancel while the order is still PENDING or
// PROCESSING. Items go back to stock in the same transaction.
func CancelOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	var order models.Order
	if err := initializers.DB.Preload("OrderItems").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch order", err)
		}
		return
	}

	if !models.CustomerCanCancel(order.Status) {
		sendErrorResponse(ctx, http.StatusBadRequest,
			fmt.Sprintf("orders in status %s can no longer be cancelled", order.Status))
		return
	}

	if err := cancelOrderAndRestock(initializers.DB, order); err != nil {
		if errors.Is(err, errOrderStatusChanged) {
			sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, "Failed to cancel order", err)
		return
	}

	dispatchOrderStatusSideEffects(order, models.OrderStatusCancelled)

	sendMessageResponse(ctx, http.StatusOK, "Order cancelled.")
}

// dispatchOrderStatusSideEffects broadcasts the change and, for
// cancellations, mails the purchaser and re-broadcasts restocked levels.
// All best-effort.
func dispatchOrderStatusSideEffects(order models.Order, newStatus string) {
	orderID := order.ID

	Notify.Dispatch(func() {
		Hub.BroadcastOrderStatus(orderID, newStatus)

		if newStatus != models.OrderStatusCancelled {
			return
		}

		var productIDs []uint
		for _, item := range order.OrderItems {
			productIDs = append(productIDs, item.ProductID)
		}
		if len(productIDs) > 0 {
			broadcastStockLevels(productIDs)
		}

		var user models.User
		if err := initializers.DB.First(&user, order.UserID).Error; err != nil {
			log.Println("Failed to load user for cancellation email:", err)
			return
		}
		if err := sendOrderCancelledEmail(user, order); err != nil {
			log.Println("Error sending order cancellation email:", err)
		}
	})
}
