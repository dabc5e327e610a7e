package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeFreeShippingOverThreshold(t *testing.T) {
	// cart = [{price: 60.00, qty: 2}]
	summary := Summarize(60.00 * 2)

	assert.Equal(t, 120.00, summary.Subtotal)
	assert.Equal(t, 9.60, summary.Tax)
	assert.Equal(t, 0.0, summary.Shipping)
	assert.Equal(t, 129.60, summary.Total)
}

func TestSummarizeFlatShippingUnderThreshold(t *testing.T) {
	// cart = [{price: 10.00, qty: 1}]
	summary := Summarize(10.00)

	assert.Equal(t, 10.00, summary.Subtotal)
	assert.Equal(t, 0.80, summary.Tax)
	assert.Equal(t, 10.0, summary.Shipping)
	assert.Equal(t, 20.80, summary.Total)
}

func TestSummarizeAtThreshold(t *testing.T) {
	summary := Summarize(100.00)

	assert.Equal(t, 0.0, summary.Shipping)
	assert.Equal(t, 108.00, summary.Total)
}

func TestSummarizeTotalsIdentity(t *testing.T) {
	subtotals := []float64{0.01, 9.99, 49.95, 99.99, 100.00, 250.50, 1234.56}
	for _, subtotal := range subtotals {
		summary := Summarize(subtotal)
		assert.Equal(t, summary.Total, Round2(summary.Subtotal+summary.Tax+summary.Shipping),
			"total must equal subtotal + tax + shipping for %.2f", subtotal)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 9.60, Round2(120.0*0.08))
	assert.Equal(t, 2.67, Round2(2.666666))
	assert.Equal(t, 2.66, Round2(2.664))
}
