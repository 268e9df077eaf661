package order

import (
	"fmt"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
)

// PaymentMethod is the closed set of payment labels the business tracks.
type PaymentMethod string

const (
	PaymentGCash   PaymentMethod = "GCash"
	PaymentBPI     PaymentMethod = "BPI"
	PaymentMaya    PaymentMethod = "Maya"
	PaymentCash    PaymentMethod = "Cash"
	PaymentBDO     PaymentMethod = "BDO"
	PaymentOthers  PaymentMethod = "Others"
	PaymentUnknown PaymentMethod = "Unknown"
)

// Location is the delivery area used for seller assignment.
type Location string

const (
	LocationQC        Location = "Quezon City"
	LocationParanaque Location = "Paranaque"
	LocationUnknown   Location = "Unknown"
)

// AssigneeFor returns the fulfillment person for a delivery area.
func AssigneeFor(loc Location) string {
	switch loc {
	case LocationQC:
		return "Ferdie"
	case LocationParanaque:
		return "Nina"
	default:
		return ""
	}
}

// Metadata is the non-line-item information inferred from an order message.
type Metadata struct {
	CustomerName string
	Payment      PaymentMethod
	Location     Location
	Assignee     string
	DiscountPct  *float64
	ShippingFee  int
	Confidence   float64
	Notes        string
}

// ItemSpec is a resolved (product code, quantity) pair before pricing.
type ItemSpec struct {
	Code     string
	Quantity int
}

// LineItem is one priced line of an order. Unique by Code within an order.
type LineItem struct {
	Code      string
	Name      string
	Size      catalog.Size
	Quantity  int
	UnitPrice int
	LineTotal int
}

// StatusReserved is the only status this engine ever produces.
const StatusReserved = "Reserved"

// Order is a fully priced, canonical order record.
type Order struct {
	Ref            string
	Items          []LineItem
	Meta           Metadata
	Status         string
	Subtotal       int
	DiscountAmount int
	GrandTotal     int
	RawMessage     string
}

// Build composes line items and metadata into an Order, pricing every line from
// the catalog's authoritative unit prices. It never trusts prices from the
// assist parser or from prior messages. Build is pure: the same inputs always
// produce an identical Order (refs and timestamps are assigned at commit time).
func Build(c *catalog.Catalog, specs []ItemSpec, meta Metadata, raw string) (*Order, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("order: no line items")
	}

	items := make([]LineItem, 0, len(specs))
	index := make(map[string]int, len(specs))
	for _, spec := range specs {
		entry, ok := c.Lookup(spec.Code)
		if !ok {
			return nil, fmt.Errorf("order: unknown product code %q", spec.Code)
		}
		if spec.Quantity <= 0 {
			return nil, fmt.Errorf("order: non-positive quantity %d for %s", spec.Quantity, spec.Code)
		}
		if i, seen := index[spec.Code]; seen {
			items[i].Quantity += spec.Quantity
			continue
		}
		index[spec.Code] = len(items)
		items = append(items, LineItem{
			Code:      entry.Code,
			Name:      entry.Name,
			Size:      entry.Size,
			Quantity:  spec.Quantity,
			UnitPrice: entry.UnitPrice,
		})
	}

	subtotal := 0
	for i := range items {
		items[i].LineTotal = items[i].Quantity * items[i].UnitPrice
		subtotal += items[i].LineTotal
	}

	if meta.Location != LocationUnknown && meta.Assignee == "" {
		meta.Assignee = AssigneeFor(meta.Location)
	}
	if meta.Payment == "" {
		meta.Payment = PaymentUnknown
	}
	if meta.Location == "" {
		meta.Location = LocationUnknown
	}

	discount := 0
	if meta.DiscountPct != nil {
		discount = int(float64(subtotal) * (*meta.DiscountPct) / 100)
	}

	return &Order{
		Items:          items,
		Meta:           meta,
		Status:         StatusReserved,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		GrandTotal:     subtotal + meta.ShippingFee - discount,
		RawMessage:     raw,
	}, nil
}

// TotalQuantity is the number of units across all lines.
func (o *Order) TotalQuantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
