package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
)

func TestBuildPricesFromCatalog(t *testing.T) {
	c := catalog.Default()
	o, err := Build(c, []ItemSpec{
		{Code: "P-CHZ", Quantity: 2},
		{Code: "2L-BBQ", Quantity: 1},
	}, Metadata{}, "2 cheese pouches and 1 bbq tub")
	require.NoError(t, err)

	require.Len(t, o.Items, 2)
	assert.Equal(t, 300, o.Items[0].LineTotal)
	assert.Equal(t, 290, o.Items[1].LineTotal)
	assert.Equal(t, 590, o.Subtotal)
	assert.Equal(t, 590, o.GrandTotal)
	assert.Equal(t, StatusReserved, o.Status)
	assert.Equal(t, 3, o.TotalQuantity())
	assert.Empty(t, o.Ref)
}

func TestBuildMergesDuplicateCodes(t *testing.T) {
	c := catalog.Default()
	o, err := Build(c, []ItemSpec{
		{Code: "P-CHZ", Quantity: 2},
		{Code: "P-CHZ", Quantity: 1},
	}, Metadata{}, "")
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 3, o.Items[0].Quantity)
	assert.Equal(t, 450, o.Subtotal)
}

func TestBuildDiscountAndShipping(t *testing.T) {
	c := catalog.Default()
	pct := 10.0
	o, err := Build(c, []ItemSpec{{Code: "2L-SC", Quantity: 2}},
		Metadata{DiscountPct: &pct, ShippingFee: 50}, "")
	require.NoError(t, err)

	assert.Equal(t, 580, o.Subtotal)
	assert.Equal(t, 58, o.DiscountAmount)
	assert.Equal(t, 580+50-58, o.GrandTotal)
}

func TestBuildDefaultsUnknowns(t *testing.T) {
	c := catalog.Default()
	o, err := Build(c, []ItemSpec{{Code: "P-OG", Quantity: 1}}, Metadata{}, "")
	require.NoError(t, err)
	assert.Equal(t, PaymentUnknown, o.Meta.Payment)
	assert.Equal(t, LocationUnknown, o.Meta.Location)
	assert.Empty(t, o.Meta.Assignee)
}

func TestBuildAssignsFromLocation(t *testing.T) {
	c := catalog.Default()
	o, err := Build(c, []ItemSpec{{Code: "P-OG", Quantity: 1}},
		Metadata{Location: LocationQC}, "")
	require.NoError(t, err)
	assert.Equal(t, "Ferdie", o.Meta.Assignee)

	o, err = Build(c, []ItemSpec{{Code: "P-OG", Quantity: 1}},
		Metadata{Location: LocationParanaque}, "")
	require.NoError(t, err)
	assert.Equal(t, "Nina", o.Meta.Assignee)
}

func TestBuildRejectsBadInput(t *testing.T) {
	c := catalog.Default()

	_, err := Build(c, nil, Metadata{}, "")
	assert.Error(t, err)

	_, err = Build(c, []ItemSpec{{Code: "P-XYZ", Quantity: 1}}, Metadata{}, "")
	assert.Error(t, err)

	_, err = Build(c, []ItemSpec{{Code: "P-CHZ", Quantity: 0}}, Metadata{}, "")
	assert.Error(t, err)
}

func TestBuildIsDeterministic(t *testing.T) {
	c := catalog.Default()
	specs := []ItemSpec{{Code: "P-CHZ", Quantity: 2}, {Code: "2L-BBQ", Quantity: 1}}
	meta := Metadata{CustomerName: "Maria", Payment: PaymentGCash}

	a, err := Build(c, specs, meta, "same message")
	require.NoError(t, err)
	b, err := Build(c, specs, meta, "same message")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
