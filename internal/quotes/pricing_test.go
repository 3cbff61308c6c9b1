package quotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePricingMode(t *testing.T) {
	assert.Equal(t, PricingModeAuto, NormalizePricingMode(""))
	assert.Equal(t, PricingModeAuto, NormalizePricingMode("auto"))
	assert.Equal(t, PricingModeAuto, NormalizePricingMode("something_else"))
	assert.Equal(t, PricingModeManualUnit, NormalizePricingMode("manual_unit"))
	assert.Equal(t, PricingModeManualTotal, NormalizePricingMode("manual_total"))
}

func TestPriceLineAuto(t *testing.T) {
	tests := []struct {
		name string
		in   LineInput
		want LinePrice
	}{
		{
			name: "per colour rate with colours",
			in: LineInput{
				Mode:            PricingModeAuto,
				Quantity:        100,
				Colours:         2,
				ProductUnitCost: 1.50,
				Rates:           PrintRates{PerColour: 0.20, PerUnit: 0.90},
				MarkupPercent:   30,
			},
			want: LinePrice{
				PrintCostTotal: 40,  // 0.20 * 2 * 100
				LineTotalCost:  190, // (1.50 + 40/100) * 100
				SellingPrice:   247, // 190 * 1.3
			},
		},
		{
			name: "two colour screen print run",
			in: LineInput{
				Mode:            PricingModeAuto,
				Quantity:        100,
				Colours:         2,
				ProductUnitCost: 2.00,
				Rates:           PrintRates{PerColour: 0.35, PerUnit: 1.20},
				MarkupPercent:   30,
			},
			want: LinePrice{
				PrintCostTotal: 70,
				LineTotalCost:  270,
				SellingPrice:   351,
			},
		},
		{
			name: "falls back to per unit when no colours",
			in: LineInput{
				Mode:            PricingModeAuto,
				Quantity:        50,
				Colours:         0,
				ProductUnitCost: 2,
				Rates:           PrintRates{PerColour: 0.20, PerUnit: 0.10},
				MarkupPercent:   0,
			},
			want: LinePrice{
				PrintCostTotal: 5,   // 0.10 * 50
				LineTotalCost:  105, // (2 + 5/50) * 50
				SellingPrice:   105,
			},
		},
		{
			name: "falls back to per unit when method has no colour rate",
			in: LineInput{
				Mode:            PricingModeAuto,
				Quantity:        10,
				Colours:         3,
				ProductUnitCost: 1,
				Rates:           PrintRates{PerColour: 0, PerUnit: 0.50},
				MarkupPercent:   100,
			},
			want: LinePrice{
				PrintCostTotal: 5,
				LineTotalCost:  15,
				SellingPrice:   30,
			},
		},
		{
			name: "no print method means product cost only",
			in: LineInput{
				Mode:            PricingModeAuto,
				Quantity:        20,
				ProductUnitCost: 3,
				MarkupPercent:   50,
			},
			want: LinePrice{
				PrintCostTotal: 0,
				LineTotalCost:  60,
				SellingPrice:   90,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceLine(tt.in)
			assert.InDelta(t, tt.want.PrintCostTotal, got.PrintCostTotal, 1e-9)
			assert.InDelta(t, tt.want.LineTotalCost, got.LineTotalCost, 1e-9)
			assert.InDelta(t, tt.want.SellingPrice, got.SellingPrice, 1e-9)
		})
	}
}

func TestPriceLineManualUnit(t *testing.T) {
	got := PriceLine(LineInput{
		Mode:            PricingModeManualUnit,
		Quantity:        250,
		ManualUnitPrice: 0.80,
		ProductUnitCost: 0.30,
		PackSize:        100,
		DeliveryPerPack: 5,
		DeliveryFlat:    10,
		MarkupPercent:   30, // ignored in manual mode
	})
	// 250 units in packs of 100 opens 3 packs.
	assert.InDelta(t, 0.0, got.PrintCostTotal, 1e-9)
	assert.InDelta(t, 75.0, got.LineTotalCost, 1e-9)  // 0.30 * 250
	assert.InDelta(t, 225.0, got.SellingPrice, 1e-9)  // 0.80*250 + 3*5 + 10
}

func TestPriceLineManualUnitPartialPackOpensWholeBox(t *testing.T) {
	got := PriceLine(LineInput{
		Mode:            PricingModeManualUnit,
		Quantity:        100,
		ManualUnitPrice: 1.25,
		PackSize:        36,
		DeliveryPerPack: 10,
	})
	// 100 units in packs of 36 opens 3 boxes.
	assert.InDelta(t, 155.0, got.SellingPrice, 1e-9)
}

func TestPriceLineManualUnitNoPackSize(t *testing.T) {
	got := PriceLine(LineInput{
		Mode:            PricingModeManualUnit,
		Quantity:        10,
		ManualUnitPrice: 2,
		DeliveryPerPack: 5,
		DeliveryFlat:    4,
	})
	// No pack size means no per-pack delivery, flat fee still applies.
	assert.InDelta(t, 24.0, got.SellingPrice, 1e-9)
}

func TestPriceLineManualTotal(t *testing.T) {
	got := PriceLine(LineInput{
		Mode:          PricingModeManualTotal,
		Quantity:      999,
		ManualTotal:   123.45,
		MarkupPercent: 30,
	})
	assert.InDelta(t, 123.45, got.SellingPrice, 1e-9)
	assert.Zero(t, got.LineTotalCost)
	assert.Zero(t, got.PrintCostTotal)
}

func TestSumTotals(t *testing.T) {
	totals := SumTotals([]LinePrice{
		{SellingPrice: 100},
		{SellingPrice: 50},
	}, 20)
	assert.InDelta(t, 150.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 30.0, totals.Vat, 1e-9)
	assert.InDelta(t, 180.0, totals.Total, 1e-9)
}

func TestSumTotalsZeroVat(t *testing.T) {
	totals := SumTotals([]LinePrice{{SellingPrice: 99.99}}, 0)
	assert.InDelta(t, 99.99, totals.Subtotal, 1e-9)
	assert.Zero(t, totals.Vat)
	assert.InDelta(t, 99.99, totals.Total, 1e-9)
}
