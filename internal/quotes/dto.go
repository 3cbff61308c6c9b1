package quotes

import "time"

// CreateQuoteRequest prices and persists a quote in one shot. Markup, VAT and
// the supplier toggle fall back to the stored defaults when omitted.
type CreateQuoteRequest struct {
	CustomerID        int64                   `json:"customer_id" validate:"required,gt=0"`
	Notes             string                  `json:"notes"`
	Terms             string                  `json:"terms"`
	MarkupPercent     *float64                `json:"markup_percent" validate:"omitempty,gte=0"`
	VatPercent        *float64                `json:"vat_percent" validate:"omitempty,gte=0"`
	HideSupplierInPDF *bool                   `json:"hide_supplier_in_pdf"`
	Lines             []CreateQuoteLineRequest `json:"lines" validate:"required,min=1"`
}

type CreateQuoteLineRequest struct {
	ProductID             *int64   `json:"product_id"`
	ManualProductName     *string  `json:"manual_product_name"`
	SupplierID            *int64   `json:"supplier_id"`
	PrintMethodID         *int64   `json:"print_method_id"`
	ManualPrintMethodName *string  `json:"manual_print_method_name"`
	Colours               int      `json:"colours"`
	Quantity              int      `json:"quantity"`
	ProductUnitCost       *float64 `json:"product_unit_cost"`
	PricingMode           string   `json:"pricing_mode"`
	ManualUnitPrice       *float64 `json:"manual_unit_price"`
	ManualTotal           *float64 `json:"manual_total"`
	PackSize              *int     `json:"pack_size"`
	DeliveryPerPack       *float64 `json:"delivery_per_pack"`
	DeliveryFlat          *float64 `json:"delivery_flat"`
	LineDescription       *string  `json:"line_description"`
}

// ListQuotesRequest filters the quote register. Zero values mean "no filter".
type ListQuotesRequest struct {
	Search     string
	Status     QuoteStatus
	CustomerID int64
	From       *time.Time
	To         *time.Time
}

// UpdateQuoteRequest is deliberately narrow: pricing is frozen at creation,
// so only workflow fields can change afterwards.
type UpdateQuoteRequest struct {
	Status *QuoteStatus `json:"status"`
	Notes  *string      `json:"notes"`
	Terms  *string      `json:"terms"`
}
