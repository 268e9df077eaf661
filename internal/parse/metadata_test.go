package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

func TestInferPayment(t *testing.T) {
	tests := []struct {
		in   string
		want order.PaymentMethod
	}{
		{"2 cheese, gcash po", order.PaymentGCash},
		{"g-cash na lang", order.PaymentGCash},
		{"bayad thru bpi", order.PaymentBPI},
		{"paymaya ok ba", order.PaymentMaya},
		{"cod na lang po", order.PaymentCash},
		{"bdo deposit", order.PaymentBDO},
		{"bank transfer po", order.PaymentOthers},
		{"2 cheese pouches", order.PaymentUnknown},
	}
	for _, tt := range tests {
		meta := InferMetadata(Normalize(tt.in))
		assert.Equal(t, tt.want, meta.Payment, tt.in)
	}
}

func TestInferPaymentFirstOccurrenceWins(t *testing.T) {
	meta := InferMetadata(Normalize("gcash or maya, either works"))
	assert.Equal(t, order.PaymentGCash, meta.Payment)
}

func TestInferLocationAndAssignee(t *testing.T) {
	meta := InferMetadata(Normalize("deliver to QC please"))
	assert.Equal(t, order.LocationQC, meta.Location)
	assert.Equal(t, "Ferdie", meta.Assignee)

	meta = InferMetadata(Normalize("taga Parañaque ako"))
	assert.Equal(t, order.LocationParanaque, meta.Location)
	assert.Equal(t, "Nina", meta.Assignee)

	meta = InferMetadata(Normalize("2 cheese pouches"))
	assert.Equal(t, order.LocationUnknown, meta.Location)
	assert.Empty(t, meta.Assignee)
}

func TestExtractCustomerName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2 cheese pouches para kay Maria Santos", "Maria Santos"},
		{"para sa Ate Jen po", "Ate Jen"},
		{"1 bbq tub for Juan, gcash", "Juan"},
		{"order from Carlo Reyes", "Carlo Reyes"},
		{"Liza ordered 2 tubs", "Liza"},
		{"for maria po gcash", "Maria"},
		{"2 cheese pouches", ""},
	}
	for _, tt := range tests {
		meta := InferMetadata(Normalize(tt.in))
		assert.Equal(t, tt.want, meta.CustomerName, tt.in)
	}
}

func TestDetectDiscount(t *testing.T) {
	meta := InferMetadata(Normalize("2 cheese pouches 15% off"))
	require.NotNil(t, meta.DiscountPct)
	assert.Equal(t, 15.0, *meta.DiscountPct)

	meta = InferMetadata(Normalize("bigyan ng 10% discount"))
	require.NotNil(t, meta.DiscountPct)
	assert.Equal(t, 10.0, *meta.DiscountPct)

	// A bare discount word flags 0% for the reviewer.
	meta = InferMetadata(Normalize("may discount ba?"))
	require.NotNil(t, meta.DiscountPct)
	assert.Equal(t, 0.0, *meta.DiscountPct)

	meta = InferMetadata(Normalize("2 cheese pouches"))
	assert.Nil(t, meta.DiscountPct)
}

func TestDetectShipping(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"plus shipping 50", 50},
		{"delivery fee 80 po", 80},
		{"sf 60", 60},
		{"60 sf", 60},
		{"2 cheese pouches", 0},
	}
	for _, tt := range tests {
		meta := InferMetadata(Normalize(tt.in))
		assert.Equal(t, tt.want, meta.ShippingFee, tt.in)
	}
}
