package models

import "gorm.io/gorm"

const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
	OrderStatusRefunded   = "REFUNDED"
)

const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

const (
	PaymentMethodCard   = "CARD"
	PaymentMethodPayPal = "PAYPAL"
	PaymentMethodCOD    = "COD"
)

const (
	AddressTypeShipping = "SHIPPING"
	AddressTypeBilling  = "BILLING"
)

type Order struct {
	gorm.Model
	OrderNumber     string         `json:"orderNumber" gorm:"uniqueIndex;size:64"`
	UserID          uint           `json:"userId" gorm:"index"`
	Status          string         `json:"status"`
	PaymentMethod   string         `json:"paymentMethod"`
	PaymentStatus   string         `json:"paymentStatus"`
	PaymentIntentID string         `json:"paymentIntentId,omitempty"`
	PayPalOrderID   string         `json:"paypalOrderId,omitempty"`
	Subtotal        float64        `json:"subtotal"`
	Tax             float64        `json:"tax"`
	Shipping        float64        `json:"shipping"`
	Total           float64        `json:"total"`
	Notes           string         `json:"notes"`
	OrderItems      []OrderItem    `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Addresses       []OrderAddress `json:"addresses" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem snapshots the product name and price at purchase time, so later
// catalog edits never change what a historical order shows.
type OrderItem struct {
	gorm.Model
	OrderID   uint    `json:"orderId" gorm:"index"`
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OrderAddress is copied from the request at order creation and never points
// back at a saved Address row.
type OrderAddress struct {
	gorm.Model
	OrderID  uint   `json:"orderId" gorm:"index"`
	Type     string `json:"type"`
	FullName string `json:"fullName"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

var orderStatusTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusRefunded},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {OrderStatusRefunded},
	OrderStatusRefunded:   {},
}

// CanTransitionOrderStatus reports whether an order may move from one status
// to another. REFUNDED additionally requires the order to have been paid,
// which the caller checks against PaymentStatus.
func CanTransitionOrderStatus(from, to string) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CustomerCanCancel reports whether the purchaser may still cancel the order.
func CustomerCanCancel(status string) bool {
	return status == OrderStatusPending || status == OrderStatusProcessing
}

func IsValidOrderStatus(status string) bool {
	_, ok := orderStatusTransitions[status]
	return ok
}

func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCard, PaymentMethodPayPal, PaymentMethodCOD:
		return true
	}
	return false
}
