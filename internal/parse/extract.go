package parse

import (
	"strings"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
)

// Op says how a mention applies against a prior confirmed order.
type Op int

const (
	// OpNone is a plain specification (a fresh line, or a set-quantity edit
	// when the message also carries modifiers).
	OpNone Op = iota
	// OpAdd merges the quantity into an existing line.
	OpAdd
	// OpRemove decrements or deletes an existing line.
	OpRemove
)

// Mention is one resolved product reference in a message. QtyExplicit
// distinguishes "remove 2 cheese" from "remove the cheese" (remove all).
type Mention struct {
	Code        string
	Quantity    int
	QtyExplicit bool
	Op          Op
	Excerpt     string
}

// window bounds how far, in tokens, a quantity, size cue, or modifier may sit
// from the product words it belongs to.
const window = 4

// ExtractMentions scans the token stream for (quantity, product, modifier)
// triples. Product references resolve by exact code first, then by flavor
// keyword with a nearby size cue; with no size cue the size defaults to pouch.
// A product with no quantity token defaults to quantity 1.
func ExtractMentions(c *catalog.Catalog, n Normalized) ([]Mention, error) {
	toks := n.Tokens
	texts := make([]string, len(toks))
	for i, t := range toks {
		texts[i] = t.Text
	}

	consumed := make([]bool, len(toks)) // quantity/cue/modifier tokens already claimed
	partOf := make([]bool, len(toks))   // tokens that are the product words of a mention

	var mentions []Mention
	for i := 0; i < len(toks); i++ {
		if consumed[i] || partOf[i] || toks[i].Kind != TokenWord {
			continue
		}

		// Exact product code wins over everything.
		if entry, ok := c.Lookup(strings.ToUpper(toks[i].Text)); ok {
			partOf[i] = true
			mentions = append(mentions, finishMention(c, toks, texts, consumed, partOf, entry, i, i+1))
			continue
		}

		flavor, width, ok := catalog.MatchFlavor(texts, i)
		if !ok {
			continue
		}
		for k := i; k < i+width; k++ {
			partOf[k] = true
		}
		size, err := findSize(toks, texts, consumed, partOf, c, i, i+width)
		if err != nil {
			return nil, err
		}
		entry, ok := c.ByFlavorSize(flavor, size)
		if !ok {
			// Unreachable with the fixed catalog; skip rather than invent.
			continue
		}
		mentions = append(mentions, finishMention(c, toks, texts, consumed, partOf, entry, i, i+width))
	}

	mentions = dropInvalid(merge(mentions))
	if len(mentions) == 0 {
		return nil, &NoLineItemsFoundError{Excerpt: excerpt(n.Raw)}
	}
	return mentions, nil
}

func finishMention(c *catalog.Catalog, toks []Token, texts []string, consumed, partOf []bool, entry catalog.Entry, start, end int) Mention {
	qty, explicit := findQuantity(toks, consumed, partOf, texts, c, start, end)
	op := findModifier(toks, consumed, partOf, start)
	return Mention{
		Code:        entry.Code,
		Quantity:    qty,
		QtyExplicit: explicit,
		Op:          op,
		Excerpt:     strings.Join(texts[start:end], " "),
	}
}

// findSize looks for the nearest size cue around the product words: a size
// word ("pouch", "tub", "malaki", ...) or a gram token resolved through the
// gram table. An unmapped gram value is a hard failure for the mention; a
// missing cue deterministically defaults to pouch.
func findSize(toks []Token, texts []string, consumed, partOf []bool, c *catalog.Catalog, start, end int) (catalog.Size, error) {
	type cand struct {
		idx  int
		dist int
	}
	var best *cand

	// Forward, stopping at the next product reference.
	for j, d := end, 1; j < len(toks) && d <= window; j, d = j+1, d+1 {
		if consumed[j] || partOf[j] {
			continue
		}
		if isProductStart(toks, texts, c, j) {
			break
		}
		if isSizeCue(toks[j]) {
			best = &cand{idx: j, dist: d}
			break
		}
	}
	// Backward, stopping at a previous mention's product words.
	for j, d := start-1, 1; j >= 0 && d <= window; j, d = j-1, d+1 {
		if partOf[j] {
			break
		}
		if consumed[j] {
			continue
		}
		if isSizeCue(toks[j]) {
			if best == nil || d < best.dist {
				best = &cand{idx: j, dist: d}
			}
			break
		}
	}

	if best == nil {
		return catalog.SizePouch, nil
	}
	tok := toks[best.idx]
	consumed[best.idx] = true
	if tok.Kind == TokenGrams {
		size, ok := catalog.GramSizes[tok.Value]
		if !ok {
			return "", &UnresolvedSizeError{Mention: strings.Join(texts[start:end], " "), Grams: tok.Value}
		}
		return size, nil
	}
	return catalog.SizeWords[tok.Text], nil
}

func isSizeCue(t Token) bool {
	if t.Kind == TokenGrams {
		return true
	}
	if t.Kind != TokenWord {
		return false
	}
	_, ok := catalog.SizeWords[t.Text]
	return ok
}

// findQuantity prefers the nearest preceding quantity token; failing that it
// accepts one directly after the mention (the "P-CHZ x 2" form). Default is 1.
func findQuantity(toks []Token, consumed, partOf []bool, texts []string, c *catalog.Catalog, start, end int) (int, bool) {
	for j, d := start-1, 1; j >= 0 && d <= window; j, d = j-1, d+1 {
		if partOf[j] {
			break
		}
		if consumed[j] {
			continue
		}
		if toks[j].Kind == TokenQty {
			consumed[j] = true
			return toks[j].Value, true
		}
	}
	for j, d := end, 1; j < len(toks) && d <= 2; j, d = j+1, d+1 {
		if consumed[j] || partOf[j] {
			continue
		}
		if isProductStart(toks, texts, c, j) {
			break
		}
		if toks[j].Kind == TokenQty {
			consumed[j] = true
			return toks[j].Value, true
		}
		// Only the multiplier filler may sit between a product and its
		// trailing quantity; any other word ends the search.
		if toks[j].Text != "x" {
			break
		}
	}
	return 1, false
}

// findModifier looks backward for an add/remove keyword governing the mention.
func findModifier(toks []Token, consumed, partOf []bool, start int) Op {
	for j, d := start-1, 1; j >= 0 && d <= window; j, d = j-1, d+1 {
		if partOf[j] {
			break
		}
		if consumed[j] || toks[j].Kind != TokenWord {
			continue
		}
		if catalog.RemoveWords[toks[j].Text] {
			consumed[j] = true
			return OpRemove
		}
		if catalog.AddWords[toks[j].Text] {
			consumed[j] = true
			return OpAdd
		}
	}
	return OpNone
}

func isProductStart(toks []Token, texts []string, c *catalog.Catalog, j int) bool {
	if toks[j].Kind != TokenWord {
		return false
	}
	if _, ok := c.Lookup(strings.ToUpper(texts[j])); ok {
		return true
	}
	_, _, ok := catalog.MatchFlavor(texts, j)
	return ok
}

// merge folds repeated mentions of the same code and op into one, summing
// quantities, so "a cheese pouch ... and 2 more cheese pouches" is one line.
func merge(mentions []Mention) []Mention {
	out := make([]Mention, 0, len(mentions))
	for _, m := range mentions {
		found := -1
		for i, prev := range out {
			if prev.Code == m.Code && prev.Op == m.Op {
				found = i
				break
			}
		}
		if found < 0 {
			out = append(out, m)
			continue
		}
		if m.Op == OpRemove && (!out[found].QtyExplicit || !m.QtyExplicit) {
			// Any remove-all swallows counted removals of the same code.
			out[found].QtyExplicit = false
			continue
		}
		out[found].Quantity += m.Quantity
		out[found].QtyExplicit = out[found].QtyExplicit || m.QtyExplicit
	}
	return out
}

// dropInvalid discards zero quantities outside a removal context.
func dropInvalid(mentions []Mention) []Mention {
	out := mentions[:0]
	for _, m := range mentions {
		if m.Quantity == 0 && m.Op != OpRemove {
			continue
		}
		out = append(out, m)
	}
	return out
}
