package assist

import (
	"encoding/json"
	"strings"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

// buildOrderPrompt renders the full parsing instructions plus the customer
// message. When prior is non-nil the confirmed order is included so the model
// applies modifications against it instead of starting fresh.
func buildOrderPrompt(text string, prior *order.Order) string {
	var b strings.Builder

	b.WriteString("You are an order parser for Preetos, a snack shop selling flavored chips. ")
	b.WriteString("Customers message in English, Filipino, or mixed Taglish. ")
	b.WriteString("Extract the order into strict JSON.\n\n")

	b.WriteString("PRODUCT CATALOG:\n")
	b.WriteString("- P-CHZ: Cheese pouch, 100g, 150 pesos\n")
	b.WriteString("- P-SC: Sour Cream pouch, 100g, 150 pesos\n")
	b.WriteString("- P-BBQ: BBQ pouch, 100g, 150 pesos\n")
	b.WriteString("- P-OG: Original Blend pouch, 100g, 150 pesos\n")
	b.WriteString("- 2L-CHZ: Cheese tub, 200g, 290 pesos\n")
	b.WriteString("- 2L-SC: Sour Cream tub, 200g, 290 pesos\n")
	b.WriteString("- 2L-BBQ: BBQ tub, 200g, 290 pesos\n")
	b.WriteString("- 2L-OG: Original Spice Blend tub, 200g, 290 pesos\n\n")

	b.WriteString("PARSING RULES:\n")
	b.WriteString("1. Quantities may be digits, English words (one..twenty), or Filipino words ")
	b.WriteString("(isa/isang=1, dalawa/dalawang=2, tatlo/tatlong=3, apat/apat na=4, lima/limang=5, ")
	b.WriteString("anim=6, pito=7, walo=8, siyam=9, sampu/sampung=10). 'ung'/'yung' with no number means 1.\n")
	b.WriteString("2. Flavor aliases: cheese/cheesy/keso -> CHZ; sour cream/sour/sc -> SC; ")
	b.WriteString("bbq/barbeque/barbecue -> BBQ; original/orig/og/plain -> OG.\n")
	b.WriteString("3. Size cues: pouch/pouches/maliit/100g/100 grams -> P- codes; ")
	b.WriteString("tub/tubs/malaki/200g/200 grams -> 2L- codes. No size mentioned means pouch. ")
	b.WriteString("A gram amount other than 100 or 200 is not a valid size.\n")
	b.WriteString("4. A flavor mentioned with no quantity means quantity 1.\n")
	b.WriteString("5. Merge duplicate products by summing their quantities.\n")
	b.WriteString("6. payment_method: detect gcash/g-cash -> \"Gcash\"; bpi -> \"BPI\"; maya/paymaya -> \"Maya\"; ")
	b.WriteString("cash/cod -> \"Cash\"; bdo -> \"BDO\"; bank transfer/online payment -> \"Others\". ")
	b.WriteString("If several appear, use the first one. If none, use \"\".\n")
	b.WriteString("7. customer_location: qc/quezon city -> \"Quezon City\"; paranaque/parañaque -> \"Paranaque\". ")
	b.WriteString("If neither, use \"\".\n")
	b.WriteString("8. customer_name: look for 'para kay X', 'para sa X', 'kay X', 'for X', 'from X', or 'X ordered'. ")
	b.WriteString("If no name, use \"\".\n")
	b.WriteString("9. discount_percentage: a discount is always a percentage of the subtotal. ")
	b.WriteString("'10% off', '10% discount', '10 off' all mean 10. If no discount, use null.\n")
	b.WriteString("10. shipping_fee: a flat peso amount, e.g. 'shipping 50', '50 sf', 'delivery fee 80'. ")
	b.WriteString("If none, use null.\n\n")

	if prior != nil {
		b.WriteString("The customer already has a confirmed order:\n")
		b.WriteString(renderPriorJSON(prior))
		b.WriteString("\n\nMODIFICATION RULES: the new message may edit that order.\n")
		b.WriteString("1. Start from the confirmed order's items.\n")
		b.WriteString("2. Apply removals first: patanggal/tanggal/remove/cancel/alisin. ")
		b.WriteString("A removal with no quantity removes the whole line. ")
		b.WriteString("A removal with a quantity subtracts it, never below zero.\n")
		b.WriteString("3. Then apply additions: add/pa-add/dagdag/plus, summing into existing lines.\n")
		b.WriteString("4. A product mentioned with a quantity but no add/remove word SETS that line to the stated quantity.\n")
		b.WriteString("5. Return the complete resulting item list, not just the changes.\n")
		b.WriteString("6. Keep the prior customer_name, payment_method, and customer_location unless the message changes them.\n")
		b.WriteString("7. If the message is clearly a brand-new order rather than an edit, ignore the prior order.\n\n")
	}

	b.WriteString("Respond with ONLY this JSON, no markdown fences, no commentary:\n")
	b.WriteString(`{"customer_name": "", "payment_method": "", "customer_location": "", `)
	b.WriteString(`"discount_percentage": null, "shipping_fee": null, `)
	b.WriteString(`"items": [{"product_code": "P-CHZ", "quantity": 1}], `)
	b.WriteString(`"confidence": 0.0, "notes": ""}`)
	b.WriteString("\n\nconfidence is your 0.0-1.0 certainty. notes is a short remark on anything ambiguous, else \"\".\n\n")

	b.WriteString("CUSTOMER MESSAGE:\n")
	b.WriteString(text)

	return b.String()
}

type priorItem struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

type priorOrder struct {
	CustomerName     string      `json:"customer_name"`
	PaymentMethod    string      `json:"payment_method"`
	CustomerLocation string      `json:"customer_location"`
	Items            []priorItem `json:"items"`
}

func renderPriorJSON(o *order.Order) string {
	p := priorOrder{
		CustomerName:     o.Meta.CustomerName,
		Items:            make([]priorItem, 0, len(o.Items)),
	}
	if o.Meta.Payment != order.PaymentUnknown {
		p.PaymentMethod = string(o.Meta.Payment)
	}
	if o.Meta.Location != order.LocationUnknown {
		p.CustomerLocation = string(o.Meta.Location)
	}
	for _, it := range o.Items {
		p.Items = append(p.Items, priorItem{ProductCode: it.Code, Quantity: it.Quantity})
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
