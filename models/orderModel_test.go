package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusProcessing},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusRefunded},
		{OrderStatusShipped, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusRefunded},
		{OrderStatusDelivered, OrderStatusRefunded},
		{OrderStatusCancelled, OrderStatusRefunded},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransitionOrderStatus(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusProcessing},
		{OrderStatusRefunded, OrderStatusPending},
		{OrderStatusRefunded, OrderStatusCancelled},
	}
	for _, tc := range denied {
		assert.False(t, CanTransitionOrderStatus(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestCustomerCanCancel(t *testing.T) {
	assert.True(t, CustomerCanCancel(OrderStatusPending))
	assert.True(t, CustomerCanCancel(OrderStatusProcessing))

	assert.False(t, CustomerCanCancel(OrderStatusShipped))
	assert.False(t, CustomerCanCancel(OrderStatusDelivered))
	assert.False(t, CustomerCanCancel(OrderStatusCancelled))
	assert.False(t, CustomerCanCancel(OrderStatusRefunded))
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded,
	} {
		assert.True(t, IsValidOrderStatus(status))
	}
	assert.False(t, IsValidOrderStatus("COMPLETED"))
	assert.False(t, IsValidOrderStatus("pending"))
	assert.False(t, IsValidOrderStatus(""))
}

func TestIsValidPaymentMethod(t *testing.T) {
	assert.True(t, IsValidPaymentMethod(PaymentMethodCard))
	assert.True(t, IsValidPaymentMethod(PaymentMethodPayPal))
	assert.True(t, IsValidPaymentMethod(PaymentMethodCOD))

	assert.False(t, IsValidPaymentMethod("BITCOIN"))
	assert.False(t, IsValidPaymentMethod("card"))
	assert.False(t, IsValidPaymentMethod(""))
}
