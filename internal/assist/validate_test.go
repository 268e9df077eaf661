package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestValidateAcceptsFullParse(t *testing.T) {
	sp := &StructuredParse{
		CustomerName:       "Maria Santos",
		PaymentMethod:      "Gcash",
		CustomerLocation:   "Quezon City",
		DiscountPercentage: floatPtr(10),
		ShippingFee:        intPtr(50),
		Items: []StructuredItem{
			{ProductCode: "P-CHZ", Quantity: 2},
			{ProductCode: "2l-bbq", Quantity: 1},
		},
		Confidence: 0.9,
		Notes:      "size defaulted",
	}

	specs, meta, err := Validate(catalog.Default(), sp)
	require.NoError(t, err)

	assert.Equal(t, []order.ItemSpec{{Code: "P-CHZ", Quantity: 2}, {Code: "2L-BBQ", Quantity: 1}}, specs)
	assert.Equal(t, "Maria Santos", meta.CustomerName)
	assert.Equal(t, order.PaymentGCash, meta.Payment)
	assert.Equal(t, order.LocationQC, meta.Location)
	assert.Equal(t, "Ferdie", meta.Assignee)
	require.NotNil(t, meta.DiscountPct)
	assert.Equal(t, 10.0, *meta.DiscountPct)
	assert.Equal(t, 50, meta.ShippingFee)
	assert.Equal(t, 0.9, meta.Confidence)
}

func TestValidateEmptyEnumsMapToUnknown(t *testing.T) {
	sp := &StructuredParse{
		Items: []StructuredItem{{ProductCode: "P-OG", Quantity: 1}},
	}
	_, meta, err := Validate(catalog.Default(), sp)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentUnknown, meta.Payment)
	assert.Equal(t, order.LocationUnknown, meta.Location)
	assert.Empty(t, meta.Assignee)
}

func TestValidateRejectsWholeParse(t *testing.T) {
	tests := []struct {
		name string
		sp   *StructuredParse
	}{
		{"nil parse", nil},
		{"no items", &StructuredParse{}},
		{"unknown code", &StructuredParse{
			Items: []StructuredItem{{ProductCode: "P-XYZ", Quantity: 1}},
		}},
		{"zero quantity", &StructuredParse{
			Items: []StructuredItem{{ProductCode: "P-CHZ", Quantity: 0}},
		}},
		{"negative quantity", &StructuredParse{
			Items: []StructuredItem{{ProductCode: "P-CHZ", Quantity: -2}},
		}},
		{"made-up payment", &StructuredParse{
			PaymentMethod: "bitcoin",
			Items:         []StructuredItem{{ProductCode: "P-CHZ", Quantity: 1}},
		}},
		{"made-up location", &StructuredParse{
			CustomerLocation: "Cebu",
			Items:            []StructuredItem{{ProductCode: "P-CHZ", Quantity: 1}},
		}},
		{"discount over 100", &StructuredParse{
			DiscountPercentage: floatPtr(150),
			Items:              []StructuredItem{{ProductCode: "P-CHZ", Quantity: 1}},
		}},
		{"negative shipping", &StructuredParse{
			ShippingFee: intPtr(-5),
			Items:       []StructuredItem{{ProductCode: "P-CHZ", Quantity: 1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Validate(catalog.Default(), tt.sp)
			require.Error(t, err)
			var aerr *Error
			assert.ErrorAs(t, err, &aerr)
		})
	}
}

func TestValidatePaymentAliases(t *testing.T) {
	tests := []struct {
		in   string
		want order.PaymentMethod
	}{
		{"gcash", order.PaymentGCash},
		{"GCASH", order.PaymentGCash},
		{"PayMaya", order.PaymentMaya},
		{"cod", order.PaymentCash},
		{"Others", order.PaymentOthers},
		{"unknown", order.PaymentUnknown},
	}
	for _, tt := range tests {
		sp := &StructuredParse{
			PaymentMethod: tt.in,
			Items:         []StructuredItem{{ProductCode: "P-CHZ", Quantity: 1}},
		}
		_, meta, err := Validate(catalog.Default(), sp)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, meta.Payment, tt.in)
	}
}
