package assist

import (
	"fmt"
	"strings"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

// Validate checks a structured parse against the catalog and enum sets.
// The result is all-or-nothing: any bad field rejects the whole parse so the
// caller falls back to the local pipeline instead of committing half-trusted
// output.
func Validate(c *catalog.Catalog, sp *StructuredParse) ([]order.ItemSpec, order.Metadata, error) {
	if sp == nil {
		return nil, order.Metadata{}, &Error{Reason: "nil parse"}
	}
	if len(sp.Items) == 0 {
		return nil, order.Metadata{}, &Error{Reason: "no items"}
	}

	specs := make([]order.ItemSpec, 0, len(sp.Items))
	for _, it := range sp.Items {
		code := strings.ToUpper(strings.TrimSpace(it.ProductCode))
		if _, ok := c.Lookup(code); !ok {
			return nil, order.Metadata{}, &Error{Reason: fmt.Sprintf("unknown product code %q", it.ProductCode)}
		}
		if it.Quantity <= 0 {
			return nil, order.Metadata{}, &Error{Reason: fmt.Sprintf("invalid quantity %d for %s", it.Quantity, code)}
		}
		specs = append(specs, order.ItemSpec{Code: code, Quantity: it.Quantity})
	}

	payment, err := mapPayment(sp.PaymentMethod)
	if err != nil {
		return nil, order.Metadata{}, err
	}
	location, err := mapLocation(sp.CustomerLocation)
	if err != nil {
		return nil, order.Metadata{}, err
	}

	if sp.DiscountPercentage != nil {
		pct := *sp.DiscountPercentage
		if pct < 0 || pct > 100 {
			return nil, order.Metadata{}, &Error{Reason: fmt.Sprintf("discount %.1f out of range", pct)}
		}
	}
	if sp.ShippingFee != nil && *sp.ShippingFee < 0 {
		return nil, order.Metadata{}, &Error{Reason: fmt.Sprintf("negative shipping fee %d", *sp.ShippingFee)}
	}

	meta := order.Metadata{
		CustomerName: strings.TrimSpace(sp.CustomerName),
		Payment:      payment,
		Location:     location,
		DiscountPct:  sp.DiscountPercentage,
		Confidence:   sp.Confidence,
		Notes:        strings.TrimSpace(sp.Notes),
	}
	if sp.ShippingFee != nil {
		meta.ShippingFee = *sp.ShippingFee
	}
	if meta.Location != order.LocationUnknown {
		meta.Assignee = order.AssigneeFor(meta.Location)
	}
	return specs, meta, nil
}

func mapPayment(raw string) (order.PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return order.PaymentUnknown, nil
	case "gcash", "g-cash":
		return order.PaymentGCash, nil
	case "bpi":
		return order.PaymentBPI, nil
	case "maya", "paymaya":
		return order.PaymentMaya, nil
	case "cash", "cod":
		return order.PaymentCash, nil
	case "bdo":
		return order.PaymentBDO, nil
	case "others", "other":
		return order.PaymentOthers, nil
	case "unknown":
		return order.PaymentUnknown, nil
	default:
		return "", &Error{Reason: fmt.Sprintf("unknown payment method %q", raw)}
	}
}

func mapLocation(raw string) (order.Location, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return order.LocationUnknown, nil
	case "quezon city", "qc", "quezon":
		return order.LocationQC, nil
	case "paranaque", "parañaque":
		return order.LocationParanaque, nil
	case "unknown":
		return order.LocationUnknown, nil
	default:
		return "", &Error{Reason: fmt.Sprintf("unknown location %q", raw)}
	}
}
