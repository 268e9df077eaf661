package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTexts(n Normalized) []string {
	out := make([]string, len(n.Tokens))
	for i, t := range n.Tokens {
		out[i] = t.Text
	}
	return out
}

func TestNormalizeQuantities(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		value int
	}{
		{"digit", "2 cheese", 2},
		{"english word", "two cheese", 2},
		{"filipino word", "dalawang cheese", 2},
		{"filipino base form", "dalawa cheese", 2},
		{"yung as one", "ung cheese", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize(tt.in)
			require.NotEmpty(t, n.Tokens)
			assert.Equal(t, TokenQty, n.Tokens[0].Kind)
			assert.Equal(t, tt.value, n.Tokens[0].Value)
		})
	}
}

func TestNormalizeGrams(t *testing.T) {
	tests := []struct {
		in    string
		grams int
	}{
		{"100g cheese", 100},
		{"200g bbq", 200},
		{"100 grams cheese", 100},
		{"200 gram bbq", 200},
	}
	for _, tt := range tests {
		n := Normalize(tt.in)
		require.NotEmpty(t, n.Tokens)
		assert.Equal(t, TokenGrams, n.Tokens[0].Kind, tt.in)
		assert.Equal(t, tt.grams, n.Tokens[0].Value, tt.in)
	}
}

func TestNormalizeFoldsDiacritics(t *testing.T) {
	n := Normalize("deliver to Parañaque")
	assert.Contains(t, tokenTexts(n), "paranaque")
}

func TestNormalizeKeepsPercentSuffix(t *testing.T) {
	// "15%" is a discount, not a quantity of 15.
	n := Normalize("2 cheese pouches 15% off")
	var qtys []int
	for _, tok := range n.Tokens {
		if tok.Kind == TokenQty {
			qtys = append(qtys, tok.Value)
		}
	}
	assert.Equal(t, []int{2}, qtys)
	assert.Contains(t, tokenTexts(n), "15%")
}

func TestNormalizeTrimsPunctuation(t *testing.T) {
	n := Normalize("P-CHZ, please!")
	texts := tokenTexts(n)
	assert.Contains(t, texts, "p-chz")
	assert.Contains(t, texts, "please")
}

func TestNormalizeKeepsRaw(t *testing.T) {
	raw := "Para kay Maria"
	n := Normalize(raw)
	assert.Equal(t, raw, n.Raw)
}
