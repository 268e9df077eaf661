package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
)

func extract(t *testing.T, msg string) []Mention {
	t.Helper()
	mentions, err := ExtractMentions(catalog.Default(), Normalize(msg))
	require.NoError(t, err)
	return mentions
}

func TestExtractEnglishOrder(t *testing.T) {
	mentions := extract(t, "2 cheese pouches and 1 BBQ tub for Maria Santos, gcash")
	require.Len(t, mentions, 2)

	assert.Equal(t, "P-CHZ", mentions[0].Code)
	assert.Equal(t, 2, mentions[0].Quantity)
	assert.True(t, mentions[0].QtyExplicit)
	assert.Equal(t, OpNone, mentions[0].Op)

	assert.Equal(t, "2L-BBQ", mentions[1].Code)
	assert.Equal(t, 1, mentions[1].Quantity)
	assert.True(t, mentions[1].QtyExplicit)
}

func TestExtractTaglishOrder(t *testing.T) {
	mentions := extract(t, "gusto ko po ng dalawang cheese pouch at isang sour cream tub para kay Juan, gcash payment")
	require.Len(t, mentions, 2)

	assert.Equal(t, "P-CHZ", mentions[0].Code)
	assert.Equal(t, 2, mentions[0].Quantity)
	assert.Equal(t, "2L-SC", mentions[1].Code)
	assert.Equal(t, 1, mentions[1].Quantity)
}

func TestExtractDefaults(t *testing.T) {
	// No size means pouch, no quantity means one.
	mentions := extract(t, "pabili ng cheese")
	require.Len(t, mentions, 1)
	assert.Equal(t, "P-CHZ", mentions[0].Code)
	assert.Equal(t, 1, mentions[0].Quantity)
	assert.False(t, mentions[0].QtyExplicit)
}

func TestExtractExactCode(t *testing.T) {
	mentions := extract(t, "2L-BBQ x 3 please")
	require.Len(t, mentions, 1)
	assert.Equal(t, "2L-BBQ", mentions[0].Code)
	assert.Equal(t, 3, mentions[0].Quantity)
	assert.True(t, mentions[0].QtyExplicit)
}

func TestExtractGramSizes(t *testing.T) {
	mentions := extract(t, "100g cheese and 200g bbq")
	require.Len(t, mentions, 2)
	assert.Equal(t, "P-CHZ", mentions[0].Code)
	assert.Equal(t, "2L-BBQ", mentions[1].Code)
}

func TestExtractUnmappedGrams(t *testing.T) {
	_, err := ExtractMentions(catalog.Default(), Normalize("150g bbq please"))
	unresolved, ok := IsUnresolvedSize(err)
	require.True(t, ok)
	assert.Equal(t, 150, unresolved.Grams)
}

func TestExtractNoProducts(t *testing.T) {
	_, err := ExtractMentions(catalog.Default(), Normalize("hello po, open pa ba kayo?"))
	_, ok := IsNoLineItemsFound(err)
	assert.True(t, ok)
}

func TestExtractQuantityNotStolenAcrossMentions(t *testing.T) {
	// The 2 belongs to bbq, not to cheese's forward scan.
	mentions := extract(t, "cheese and 2 bbq")
	require.Len(t, mentions, 2)
	assert.Equal(t, "P-CHZ", mentions[0].Code)
	assert.Equal(t, 1, mentions[0].Quantity)
	assert.Equal(t, "P-BBQ", mentions[1].Code)
	assert.Equal(t, 2, mentions[1].Quantity)
}

func TestExtractMergesDuplicates(t *testing.T) {
	mentions := extract(t, "one cheese pouch and 2 cheese pouches")
	require.Len(t, mentions, 1)
	assert.Equal(t, "P-CHZ", mentions[0].Code)
	assert.Equal(t, 3, mentions[0].Quantity)
}

func TestExtractRemoveModifier(t *testing.T) {
	mentions := extract(t, "patanggal yung tub cheese")
	require.Len(t, mentions, 1)
	assert.Equal(t, "2L-CHZ", mentions[0].Code)
	assert.Equal(t, OpRemove, mentions[0].Op)
	assert.False(t, mentions[0].QtyExplicit)
}

func TestExtractAddModifier(t *testing.T) {
	mentions := extract(t, "pa-add 2 og pouches")
	require.Len(t, mentions, 1)
	assert.Equal(t, "P-OG", mentions[0].Code)
	assert.Equal(t, OpAdd, mentions[0].Op)
	assert.Equal(t, 2, mentions[0].Quantity)
	assert.True(t, mentions[0].QtyExplicit)
}

func TestExtractCountedRemove(t *testing.T) {
	mentions := extract(t, "remove 1 cheese pouch")
	require.Len(t, mentions, 1)
	assert.Equal(t, OpRemove, mentions[0].Op)
	assert.Equal(t, 1, mentions[0].Quantity)
	assert.True(t, mentions[0].QtyExplicit)
}

func TestExtractRemoveAllSwallowsCountedRemove(t *testing.T) {
	mentions := extract(t, "remove 1 cheese pouch, tanggal na yung cheese pouch")
	require.Len(t, mentions, 1)
	assert.Equal(t, OpRemove, mentions[0].Op)
	assert.False(t, mentions[0].QtyExplicit)
}

func TestExtractSourCreamBigram(t *testing.T) {
	mentions := extract(t, "3 sour cream tubs")
	require.Len(t, mentions, 1)
	assert.Equal(t, "2L-SC", mentions[0].Code)
	assert.Equal(t, 3, mentions[0].Quantity)
}

func TestExtractFilipinoSizeCues(t *testing.T) {
	mentions := extract(t, "isang malaki na bbq at isang maliit na keso")
	require.Len(t, mentions, 2)
	assert.Equal(t, "2L-BBQ", mentions[0].Code)
	assert.Equal(t, "P-CHZ", mentions[1].Code)
}
