package parse

import (
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

// Resolve applies extracted mentions either as a fresh order or as a
// modification of the prior confirmed order for the conversation.
//
// Modification mode only activates when a prior order exists and at least one
// mention carries an add/remove modifier; in that mode, unmodified mentions
// are set-quantity edits. Removals apply first (an uncounted removal deletes
// the line, counted removals decrement and clamp at zero), then additions,
// then sets. A result with no lines left is an error.
func Resolve(prior *order.Order, mentions []Mention) ([]order.ItemSpec, error) {
	if prior == nil || !hasModifier(mentions) {
		return freshSpecs(mentions), nil
	}

	codes := make([]string, 0, len(prior.Items)+len(mentions))
	qty := make(map[string]int, len(prior.Items))
	for _, it := range prior.Items {
		codes = append(codes, it.Code)
		qty[it.Code] = it.Quantity
	}
	track := func(code string) {
		if _, ok := qty[code]; !ok {
			codes = append(codes, code)
		}
	}

	for _, m := range mentions {
		if m.Op != OpRemove {
			continue
		}
		if !m.QtyExplicit {
			qty[m.Code] = 0
			continue
		}
		if left := qty[m.Code] - m.Quantity; left > 0 {
			qty[m.Code] = left
		} else {
			qty[m.Code] = 0
		}
	}
	for _, m := range mentions {
		if m.Op != OpAdd {
			continue
		}
		track(m.Code)
		qty[m.Code] += m.Quantity
	}
	for _, m := range mentions {
		if m.Op != OpNone {
			continue
		}
		track(m.Code)
		qty[m.Code] = m.Quantity
	}

	specs := make([]order.ItemSpec, 0, len(codes))
	for _, code := range codes {
		if qty[code] <= 0 {
			continue
		}
		specs = append(specs, order.ItemSpec{Code: code, Quantity: qty[code]})
	}
	if len(specs) == 0 {
		return nil, &EmptyOrderAfterModificationError{}
	}
	return specs, nil
}

func hasModifier(mentions []Mention) bool {
	for _, m := range mentions {
		if m.Op != OpNone {
			return true
		}
	}
	return false
}

// freshSpecs treats every mention as a new line. Removals make no sense
// without a prior order and are dropped.
func freshSpecs(mentions []Mention) []order.ItemSpec {
	specs := make([]order.ItemSpec, 0, len(mentions))
	for _, m := range mentions {
		if m.Op == OpRemove || m.Quantity <= 0 {
			continue
		}
		specs = append(specs, order.ItemSpec{Code: m.Code, Quantity: m.Quantity})
	}
	return specs
}
