package parse

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

// paymentWords maps normalized tokens to a payment method. Tokens that signal
// a payment without naming a tracked method ("transfer", "bank") map to
// Others; anything else is a deliberate Unknown, never a silent default.
var paymentWords = map[string]order.PaymentMethod{
	"gcash": order.PaymentGCash, "g-cash": order.PaymentGCash,
	"bpi":     order.PaymentBPI,
	"maya":    order.PaymentMaya, "paymaya": order.PaymentMaya,
	"cash":    order.PaymentCash, "cod": order.PaymentCash,
	"bdo":     order.PaymentBDO,
	"transfer": order.PaymentOthers, "bank": order.PaymentOthers, "online": order.PaymentOthers,
}

// locationWords maps normalized tokens to a delivery area. Diacritics are
// folded by the normalizer, so "parañaque" arrives here as "paranaque".
var locationWords = map[string]order.Location{
	"qc":        order.LocationQC,
	"quezon":    order.LocationQC,
	"paranaque": order.LocationParanaque,
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bpara\s+kay\s+([A-Za-z][A-Za-z .'-]*)`),
	regexp.MustCompile(`(?i)\bpara\s+sa\s+([A-Za-z][A-Za-z .'-]*)`),
	regexp.MustCompile(`(?i)\bkay\s+([A-Za-z][A-Za-z .'-]*)`),
	regexp.MustCompile(`(?i)\bfor\s+([A-Za-z][A-Za-z .'-]*)`),
	regexp.MustCompile(`(?i)\bfrom\s+([A-Za-z][A-Za-z .'-]*)`),
	regexp.MustCompile(`(?i)\bcustomer:\s*([A-Za-z][A-Za-z .'-]*)`),
	regexp.MustCompile(`(?i)\b([A-Za-z][A-Za-z .'-]*)\s+ordered\b`),
}

// nameStopWords end a captured name: politeness particles and order vocabulary
// that trail the actual name in casual phrasing ("for Maria po, gcash").
var nameStopWords = map[string]bool{
	"po": true, "lang": true, "na": true, "please": true, "pls": true,
	"thanks": true, "thank": true, "salamat": true, "payment": true,
	"order": true, "gcash": true, "bpi": true, "maya": true, "cash": true,
	"bdo": true, "cod": true, "paymaya": true,
}

var (
	discountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)%\s*off`),
		regexp.MustCompile(`(\d+)%\s*discount`),
		regexp.MustCompile(`(\d+)%`),
		regexp.MustCompile(`(\d+)\s*off\b`),
		regexp.MustCompile(`discount\s*(\d+)`),
	}
	genericDiscount = regexp.MustCompile(`\b(discount|bawas)\b`)

	shippingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`shipping\s*(?:fee)?\s*(\d+)`),
		regexp.MustCompile(`delivery\s*(?:fee)?\s*(\d+)`),
		regexp.MustCompile(`\bsf\s*(?:fee)?\s*(\d+)`),
		regexp.MustCompile(`padala\s*(\d+)`),
		regexp.MustCompile(`hatid\s*(\d+)`),
		regexp.MustCompile(`\bship\s*(\d+)`),
		regexp.MustCompile(`\bdeliver\s*(\d+)`),
		regexp.MustCompile(`(\d+)\s*shipping`),
		regexp.MustCompile(`(\d+)\s*sf\b`),
	}
)

var titleCaser = cases.Title(language.Und)

// InferMetadata scans the normalized tokens for payment and location keywords
// (first occurrence in reading order wins for each) and best-effort extracts
// the customer name, discount, and shipping fee.
func InferMetadata(n Normalized) order.Metadata {
	meta := order.Metadata{
		Payment:  order.PaymentUnknown,
		Location: order.LocationUnknown,
	}

	for _, t := range n.Tokens {
		if t.Kind != TokenWord {
			continue
		}
		if meta.Payment == order.PaymentUnknown {
			if p, ok := paymentWords[t.Text]; ok {
				meta.Payment = p
			}
		}
		if meta.Location == order.LocationUnknown {
			if l, ok := locationWords[t.Text]; ok {
				meta.Location = l
			}
		}
	}
	meta.Assignee = order.AssigneeFor(meta.Location)
	meta.CustomerName = extractName(n.Raw)

	lower := strings.ToLower(n.Raw)
	meta.DiscountPct = detectDiscount(lower)
	meta.ShippingFee = detectShipping(lower)
	return meta
}

// extractName matches "for <Name>", "kay <Name>", "para sa <Name>" and
// friends against the original-cased text, then title-cases the result.
func extractName(raw string) string {
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		name := cutAtStopWord(strings.TrimSpace(m[1]))
		if name == "" {
			continue
		}
		return titleCaser.String(strings.ToLower(name))
	}
	return ""
}

func cutAtStopWord(candidate string) string {
	words := strings.Fields(candidate)
	kept := words[:0]
	for _, w := range words {
		if nameStopWords[strings.ToLower(strings.Trim(w, ".,"))] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// detectDiscount returns the discount percentage, or nil when none is
// mentioned. Numeric values are always percentages; a generic discount word
// with no number yields 0% so the reviewer can fill it in.
func detectDiscount(lower string) *float64 {
	for _, re := range discountPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return &v
			}
		}
	}
	if genericDiscount.MatchString(lower) {
		zero := 0.0
		return &zero
	}
	return nil
}

// detectShipping returns the flat shipping fee in pesos, 0 when absent.
func detectShipping(lower string) int {
	for _, re := range shippingPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return v
			}
		}
	}
	return 0
}
