package order

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
)

// sortedForDisplay returns the lines pouches-first, the way the sheet and the
// sellers read orders.
func (o *Order) sortedForDisplay() []LineItem {
	items := make([]LineItem, len(o.Items))
	copy(items, o.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Size == catalog.SizePouch && items[j].Size != catalog.SizePouch
	})
	return items
}

// RenderPreview formats the pending order for the confirmation message.
func (o *Order) RenderPreview() string {
	var sb strings.Builder
	sb.WriteString("🛒 *Order Parsed Successfully!*\n\n")
	o.writeHeader(&sb)
	o.writeItems(&sb)
	o.writeTotals(&sb)
	if o.Meta.CustomerName == "" {
		sb.WriteString("\n⚠️ Customer name not detected. Please supply one before confirming.\n")
	}
	sb.WriteString("\n👆 *Confirm to save to the order sheet*")
	return sb.String()
}

// RenderSaved formats the committed order for the post-confirm message.
func (o *Order) RenderSaved() string {
	var sb strings.Builder
	sb.WriteString("✅ *Order Saved*\n\n")
	o.writeHeader(&sb)
	o.writeItems(&sb)
	o.writeTotals(&sb)
	return sb.String()
}

// RenderBreakdown is the plain, copy-pasteable breakdown sent to the customer.
func (o *Order) RenderBreakdown() string {
	lines := make([]string, 0, len(o.Items)+4)
	for _, it := range o.sortedForDisplay() {
		name := it.Name
		if name == "BBQ" {
			name = "Barbecue"
		}
		lines = append(lines, fmt.Sprintf("%s %s - %d - ₱%s", it.Size, name, it.Quantity, group(it.LineTotal)))
	}
	if o.Meta.ShippingFee > 0 {
		lines = append(lines, fmt.Sprintf("Shipping : ₱%s", group(o.Meta.ShippingFee)))
	}
	if o.DiscountAmount > 0 {
		lines = append(lines, fmt.Sprintf("Discount : -₱%s", group(o.DiscountAmount)))
	}
	lines = append(lines, "----------")
	lines = append(lines, fmt.Sprintf("Total - ₱%s", group(o.GrandTotal)))
	return strings.Join(lines, "\n")
}

// RenderDetails formats the per-line price math and parse metadata.
func (o *Order) RenderDetails() string {
	var sb strings.Builder
	sb.WriteString("📋 *Detailed Order Information*\n\n")
	if o.Meta.Confidence > 0 {
		fmt.Fprintf(&sb, "🤖 *AI Confidence:* %.0f%%\n", o.Meta.Confidence*100)
	}
	if o.Meta.Notes != "" {
		fmt.Fprintf(&sb, "📝 *Notes:* %s\n", o.Meta.Notes)
	}
	sb.WriteString("\n*Product Breakdown:*\n")
	for _, it := range o.Items {
		fmt.Fprintf(&sb, "• *%s* - %s %s\n", it.Code, it.Name, it.Size)
		fmt.Fprintf(&sb, "  Quantity: %d × ₱%d = ₱%s\n", it.Quantity, it.UnitPrice, group(it.LineTotal))
	}
	excerpt := o.RawMessage
	if len(excerpt) > 500 {
		excerpt = excerpt[:500] + "..."
	}
	fmt.Fprintf(&sb, "\n*Original Message:*\n```\n%s\n```", excerpt)
	return sb.String()
}

func (o *Order) writeHeader(sb *strings.Builder) {
	fmt.Fprintf(sb, "%s *Customer:* %s\n", mark(o.Meta.CustomerName != ""), orDefault(o.Meta.CustomerName, "Not specified"))
	fmt.Fprintf(sb, "%s *Payment:* %s\n", mark(o.Meta.Payment != PaymentUnknown), paymentLabel(o.Meta.Payment))
	fmt.Fprintf(sb, "%s *Location:* %s\n", mark(o.Meta.Location != LocationUnknown), locationLabel(o.Meta.Location))
	if o.Meta.Assignee != "" {
		fmt.Fprintf(sb, "👤 *Assigned to:* %s\n", o.Meta.Assignee)
	}
}

func (o *Order) writeItems(sb *strings.Builder) {
	sb.WriteString("\n📦 *Order Items:*\n")
	for _, it := range o.sortedForDisplay() {
		fmt.Fprintf(sb, "• %s %s - %d - ₱%s\n", it.Size, it.Name, it.Quantity, group(it.LineTotal))
	}
}

func (o *Order) writeTotals(sb *strings.Builder) {
	breakdown := o.itemCountBreakdown()
	if o.Meta.ShippingFee > 0 || o.DiscountAmount > 0 {
		fmt.Fprintf(sb, "\n💰 *Subtotal:* ₱%s\n", group(o.Subtotal))
		if o.Meta.ShippingFee > 0 {
			fmt.Fprintf(sb, "🚚 *Shipping:* +₱%s\n", group(o.Meta.ShippingFee))
		}
		if o.DiscountAmount > 0 {
			pct := 0.0
			if o.Meta.DiscountPct != nil {
				pct = *o.Meta.DiscountPct
			}
			fmt.Fprintf(sb, "🏷️ *Discount:* %g%% (-₱%s)\n", pct, group(o.DiscountAmount))
		}
		fmt.Fprintf(sb, "\n💰 *Final Total:* ₱%s (%s)\n", group(o.GrandTotal), breakdown)
	} else {
		fmt.Fprintf(sb, "\n💰 *Total:* ₱%s (%s)\n", group(o.GrandTotal), breakdown)
	}
}

// itemCountBreakdown formats counts like "2 pouches | 1 tub".
func (o *Order) itemCountBreakdown() string {
	pouches, tubs := 0, 0
	for _, it := range o.Items {
		if it.Size == catalog.SizePouch {
			pouches += it.Quantity
		} else {
			tubs += it.Quantity
		}
	}
	parts := make([]string, 0, 2)
	if pouches > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", pouches, plural(pouches, "pouch", "pouches")))
	}
	if tubs > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", tubs, plural(tubs, "tub", "tubs")))
	}
	if len(parts) == 0 {
		return "0 items"
	}
	return strings.Join(parts, " | ")
}

func mark(present bool) string {
	if present {
		return "🟢"
	}
	return "🔘"
}

func paymentLabel(p PaymentMethod) string {
	if p == PaymentUnknown || p == "" {
		return "Not specified"
	}
	return string(p)
}

func locationLabel(l Location) string {
	if l == LocationUnknown || l == "" {
		return "Not specified"
	}
	return string(l)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// group renders n with thousands separators, e.g. 1450 -> "1,450".
func group(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
