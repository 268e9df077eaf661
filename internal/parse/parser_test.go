package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

func TestParseEndToEnd(t *testing.T) {
	p := NewParser(catalog.Default())

	res, err := p.Parse("2 cheese pouches and 1 BBQ tub for Maria Santos, gcash, deliver to QC, shipping 50", nil)
	require.NoError(t, err)

	assert.Equal(t, []order.ItemSpec{{Code: "P-CHZ", Quantity: 2}, {Code: "2L-BBQ", Quantity: 1}}, res.Items)
	assert.Equal(t, "Maria Santos", res.Meta.CustomerName)
	assert.Equal(t, order.PaymentGCash, res.Meta.Payment)
	assert.Equal(t, order.LocationQC, res.Meta.Location)
	assert.Equal(t, "Ferdie", res.Meta.Assignee)
	assert.Equal(t, 50, res.Meta.ShippingFee)
}

func TestParseTaglishEndToEnd(t *testing.T) {
	p := NewParser(catalog.Default())

	res, err := p.Parse("gusto ko po ng dalawang cheese pouch at isang sour cream tub para kay Juan, gcash payment", nil)
	require.NoError(t, err)

	assert.Equal(t, []order.ItemSpec{{Code: "P-CHZ", Quantity: 2}, {Code: "2L-SC", Quantity: 1}}, res.Items)
	assert.Equal(t, "Juan", res.Meta.CustomerName)
	assert.Equal(t, order.PaymentGCash, res.Meta.Payment)
}

func TestParseModificationEndToEnd(t *testing.T) {
	p := NewParser(catalog.Default())

	prior, err := order.Build(catalog.Default(), []order.ItemSpec{
		{Code: "P-CHZ", Quantity: 2},
		{Code: "2L-CHZ", Quantity: 1},
	}, order.Metadata{}, "")
	require.NoError(t, err)

	res, err := p.Parse("patanggal yung tub cheese", prior)
	require.NoError(t, err)
	assert.Equal(t, []order.ItemSpec{{Code: "P-CHZ", Quantity: 2}}, res.Items)
}

func TestParseRemovalOnlyWithoutPrior(t *testing.T) {
	p := NewParser(catalog.Default())

	_, err := p.Parse("patanggal yung tub cheese", nil)
	_, ok := IsNoLineItemsFound(err)
	assert.True(t, ok)
}
