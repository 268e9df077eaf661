package parse

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
)

// TokenKind discriminates the token stream the extractor walks.
type TokenKind int

const (
	// TokenWord is any normalized word that is not a quantity.
	TokenWord TokenKind = iota
	// TokenQty is a count quantity, from a digit form or a number word.
	TokenQty
	// TokenGrams is a gram-based size cue like "100g" or "200 grams".
	TokenGrams
)

// Token is one normalized unit of the message.
type Token struct {
	Kind  TokenKind
	Text  string // normalized source form, kept for error excerpts
	Value int    // count for TokenQty, grams for TokenGrams
}

// Normalized is the tokenized message plus the original string. The original
// is kept because customer-name extraction is case sensitive.
type Normalized struct {
	Raw    string
	Tokens []Token
}

var (
	gramToken  = regexp.MustCompile(`^(\d+)(?:g|gram|grams)$`)
	digitToken = regexp.MustCompile(`^\d+$`)

	// Strips diacritics so "parañaque" matches "paranaque".
	foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize tokenizes a raw message: fold diacritics, lowercase, strip
// punctuation except hyphens inside tokens (product codes carry them), collapse
// gram expressions into gram tokens, and expand digit forms and English or
// Filipino number words into quantity tokens.
func Normalize(raw string) Normalized {
	folded, _, err := transform.String(foldDiacritics, raw)
	if err != nil {
		folded = raw
	}
	lower := strings.ToLower(folded)

	fields := strings.Fields(lower)
	tokens := make([]Token, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		word := trimPunct(fields[i])
		if word == "" {
			continue
		}

		if m := gramToken.FindStringSubmatch(word); m != nil {
			v, _ := strconv.Atoi(m[1])
			tokens = append(tokens, Token{Kind: TokenGrams, Text: word, Value: v})
			continue
		}

		if digitToken.MatchString(word) {
			v, _ := strconv.Atoi(word)
			// "100 grams" is a gram expression split over two words.
			if i+1 < len(fields) {
				next := trimPunct(fields[i+1])
				if next == "g" || next == "gram" || next == "grams" {
					tokens = append(tokens, Token{Kind: TokenGrams, Text: word + next, Value: v})
					i++
					continue
				}
			}
			tokens = append(tokens, Token{Kind: TokenQty, Text: word, Value: v})
			continue
		}

		if v, ok := catalog.NumberWords[word]; ok {
			tokens = append(tokens, Token{Kind: TokenQty, Text: word, Value: v})
			continue
		}

		tokens = append(tokens, Token{Kind: TokenWord, Text: word})
	}

	return Normalized{Raw: raw, Tokens: tokens}
}

// trimPunct drops leading and trailing punctuation but keeps interior
// characters, so "p-chz," becomes "p-chz" with its hyphen intact.
func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '%'
	})
}

// excerpt trims a raw message for error reporting.
func excerpt(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 80 {
		return raw[:80] + "..."
	}
	return raw
}
