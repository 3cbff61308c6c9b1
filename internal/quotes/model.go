package quotes

import "time"

type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "Pending"
	QuoteStatusSent     QuoteStatus = "Sent"
	QuoteStatusAccepted QuoteStatus = "Accepted"
	QuoteStatusLost     QuoteStatus = "Lost"
)

// ValidStatus reports whether s is one of the four quote statuses.
func ValidStatus(s QuoteStatus) bool {
	switch s {
	case QuoteStatusPending, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusLost:
		return true
	}
	return false
}

// Quote is a priced offer. Financial fields are computed once at creation and
// frozen; editing a quote afterwards is limited to status, notes and terms.
type Quote struct {
	ID                int64       `json:"id"`
	QuoteNumber       string      `json:"quote_number"`
	CustomerID        int64       `json:"customer_id"`
	Date              time.Time   `json:"date"`
	Status            QuoteStatus `json:"status"`
	Subtotal          float64     `json:"subtotal"`
	Vat               float64     `json:"vat"`
	Total             float64     `json:"total"`
	Notes             string      `json:"notes"`
	Terms             string      `json:"terms"`
	MarkupPercent     float64     `json:"markup_percent"`
	VatPercent        float64     `json:"vat_percent"`
	HideSupplierInPDF bool        `json:"hide_supplier_in_pdf"`
	Lines             []QuoteLine `json:"lines,omitempty"`
}

// QuoteLine is write-once: inserted at quote creation or clone, never updated.
// Catalog references are nullable because a line may instead carry a manual
// product or print method name, and because catalog deletions null them out.
type QuoteLine struct {
	ID                    int64       `json:"id"`
	QuoteID               int64       `json:"quote_id"`
	ProductID             *int64      `json:"product_id"`
	SupplierID            *int64      `json:"supplier_id"`
	PrintMethodID         *int64      `json:"print_method_id"`
	Colours               int         `json:"colours"`
	Quantity              int         `json:"quantity"`
	ProductUnitCost       float64     `json:"product_unit_cost"`
	PrintCostTotal        float64     `json:"print_cost_total"`
	LineTotalCost         float64     `json:"line_total_cost"`
	SellingPrice          float64     `json:"selling_price"`
	PricingMode           PricingMode `json:"pricing_mode"`
	ManualUnitPrice       *float64    `json:"manual_unit_price"`
	ManualTotal           *float64    `json:"manual_total"`
	PackSize              *int        `json:"pack_size"`
	DeliveryPerPack       *float64    `json:"delivery_per_pack"`
	DeliveryFlat          *float64    `json:"delivery_flat"`
	LineDescription       *string     `json:"line_description"`
	ManualProductName     *string     `json:"manual_product_name"`
	ManualPrintMethodName *string     `json:"manual_print_method_name"`
}

// QuoteSummary is a list row with the joined customer name.
type QuoteSummary struct {
	Quote
	CompanyName string `json:"company_name"`
}

// Document is a fully joined quote used by renderers and exports.
type Document struct {
	Quote
	CompanyName   string         `json:"company_name"`
	ContactPerson string         `json:"contact_person"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Address       string         `json:"address"`
	Lines         []DocumentLine `json:"lines"`
}

// DocumentLine joins catalog names onto a quote line. Manual names take
// precedence over the joined catalog names for display.
type DocumentLine struct {
	QuoteLine
	ProductName     string `json:"product_name"`
	PrintMethodName string `json:"print_method_name"`
	SupplierName    string `json:"supplier_name"`
}

// DisplayProduct returns the product name to show on documents.
func (l DocumentLine) DisplayProduct() string {
	if l.ManualProductName != nil && *l.ManualProductName != "" {
		return *l.ManualProductName
	}
	return l.ProductName
}

// DisplayPrintMethod returns the print method name to show on documents.
func (l DocumentLine) DisplayPrintMethod() string {
	if l.ManualPrintMethodName != nil && *l.ManualPrintMethodName != "" {
		return *l.ManualPrintMethodName
	}
	return l.PrintMethodName
}

// UnitPrice derives the display-only per-unit price from the stored line
// total. It is never persisted.
func (l DocumentLine) UnitPrice() float64 {
	qty := l.Quantity
	if qty < 1 {
		qty = 1
	}
	return l.SellingPrice / float64(qty)
}

// ExportRow is one line of the CSV/XLSX quote register.
type ExportRow struct {
	QuoteNumber string
	Date        time.Time
	Status      QuoteStatus
	Subtotal    float64
	Vat         float64
	Total       float64
	CompanyName string
}
