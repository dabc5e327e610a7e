package controllers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validAddressData() OrderAddressData {
	return OrderAddressData{
		FullName: "Jordan Smith",
		Street:   "42 Elm Street",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62701",
		Country:  "USA",
		Phone:    "555-0101",
	}
}

func TestValidateOrderAddressAccepted(t *testing.T) {
	assert.NoError(t, validateOrderAddress("shipping", validAddressData()))
}

func TestValidateOrderAddressMissingFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*OrderAddressData)
	}{
		{"street", func(a *OrderAddressData) { a.Street = "" }},
		{"city", func(a *OrderAddressData) { a.City = "" }},
		{"state", func(a *OrderAddressData) { a.State = "" }},
		{"zipCode", func(a *OrderAddressData) { a.ZipCode = "" }},
		{"country", func(a *OrderAddressData) { a.Country = "" }},
	}

	for _, tc := range cases {
		addr := validAddressData()
		tc.mutate(&addr)

		err := validateOrderAddress("shipping", addr)
		assert.Error(t, err, "missing %s must be rejected", tc.field)
		assert.Contains(t, err.Error(), tc.field, "error must name the missing field")
		assert.Contains(t, err.Error(), "shipping", "error must name which address is wrong")
	}
}

func TestValidateOrderAddressWhitespaceOnly(t *testing.T) {
	addr := validAddressData()
	addr.City = "   "

	err := validateOrderAddress("billing", addr)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "city")
}

func TestValidateOrderAddressOptionalFields(t *testing.T) {
	addr := validAddressData()
	addr.FullName = ""
	addr.Phone = ""

	assert.NoError(t, validateOrderAddress("shipping", addr))
}

func TestStockErrorMessage(t *testing.T) {
	err := &stockError{ProductName: "Walnut Desk", Requested: 3, Available: 1}

	assert.Equal(t, "insufficient stock for Walnut Desk: requested 3, available 1", err.Error())
}

func TestNewOrderNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		number := newOrderNumber()
		assert.True(t, strings.HasPrefix(number, "ORD-"))
		assert.Len(t, number, len("ORD-")+8)
		assert.False(t, seen[number], "order numbers must not repeat")
		seen[number] = true
	}
}

func TestOrderAddressRowCopiesEveryField(t *testing.T) {
	addr := validAddressData()
	row := orderAddressRow(7, "SHIPPING", addr)

	assert.Equal(t, uint(7), row.OrderID)
	assert.Equal(t, "SHIPPING", row.Type)
	assert.Equal(t, addr.FullName, row.FullName)
	assert.Equal(t, addr.Street, row.Street)
	assert.Equal(t, addr.City, row.City)
	assert.Equal(t, addr.State, row.State)
	assert.Equal(t, addr.ZipCode, row.ZipCode)
	assert.Equal(t, addr.Country, row.Country)
	assert.Equal(t, addr.Phone, row.Phone)
}
