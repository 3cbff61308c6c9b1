package quotes

import "math"

type PricingMode string

const (
	PricingModeAuto        PricingMode = "auto"
	PricingModeManualUnit  PricingMode = "manual_unit"
	PricingModeManualTotal PricingMode = "manual_total"
)

// NormalizePricingMode maps unknown or empty modes to auto.
func NormalizePricingMode(s string) PricingMode {
	switch PricingMode(s) {
	case PricingModeManualUnit:
		return PricingModeManualUnit
	case PricingModeManualTotal:
		return PricingModeManualTotal
	default:
		return PricingModeAuto
	}
}

// PrintRates are the per-unit print charges of a print method.
type PrintRates struct {
	PerColour float64
	PerUnit   float64
}

// LineInput carries everything a single line needs to be priced.
type LineInput struct {
	Mode            PricingMode
	Quantity        int
	Colours         int
	ProductUnitCost float64
	Rates           PrintRates
	ManualUnitPrice float64
	ManualTotal     float64
	PackSize        int
	DeliveryPerPack float64
	DeliveryFlat    float64
	MarkupPercent   float64
}

// LinePrice is the computed, stored money of one line.
type LinePrice struct {
	PrintCostTotal float64
	LineTotalCost  float64
	SellingPrice   float64
}

// PriceLine computes the stored financials of one quote line.
//
// auto: print cost is per-colour when the method charges per colour and the
// line has colours, otherwise per-unit; cost is product cost plus print cost
// spread over the quantity, and the selling price applies the markup on top.
//
// manual_unit: the user fixes the unit selling price; delivery is charged per
// opened pack plus a flat fee. The cost side keeps the product cost so margin
// reporting stays honest, and carries no print cost.
//
// manual_total: the user fixes the line total verbatim; no cost is recorded.
func PriceLine(in LineInput) LinePrice {
	switch in.Mode {
	case PricingModeManualUnit:
		return priceManualUnit(in)
	case PricingModeManualTotal:
		return LinePrice{SellingPrice: in.ManualTotal}
	default:
		return priceAuto(in)
	}
}

func priceAuto(in LineInput) LinePrice {
	qty := float64(in.Quantity)

	var printCost float64
	if in.Rates.PerColour > 0 && in.Colours > 0 {
		printCost = in.Rates.PerColour * float64(in.Colours) * qty
	} else {
		printCost = in.Rates.PerUnit * qty
	}

	var totalCost float64
	if in.Quantity > 0 {
		totalCost = (in.ProductUnitCost + printCost/qty) * qty
	}
	return LinePrice{
		PrintCostTotal: printCost,
		LineTotalCost:  totalCost,
		SellingPrice:   totalCost * (1 + in.MarkupPercent/100),
	}
}

func priceManualUnit(in LineInput) LinePrice {
	var boxes float64
	if in.PackSize > 0 {
		boxes = math.Ceil(float64(in.Quantity) / float64(in.PackSize))
	}
	delivery := boxes*in.DeliveryPerPack + in.DeliveryFlat
	return LinePrice{
		LineTotalCost: in.ProductUnitCost * float64(in.Quantity),
		SellingPrice:  in.ManualUnitPrice*float64(in.Quantity) + delivery,
	}
}

// Totals aggregates line selling prices into the quote's frozen money.
type Totals struct {
	Subtotal float64
	Vat      float64
	Total    float64
}

// SumTotals adds up selling prices and applies VAT.
func SumTotals(lines []LinePrice, vatPercent float64) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal += l.SellingPrice
	}
	t.Vat = t.Subtotal * vatPercent / 100
	t.Total = t.Subtotal + t.Vat
	return t
}
