package settings

import "time"

// Settings is the single shared configuration row (id=1). It is updated in
// place and never inserted or deleted outside the initial migration.
type Settings struct {
	ID                     int64     `json:"id"`
	VatPercent             float64   `json:"vat_percent"`
	DefaultMarkupPercent   float64   `json:"default_markup_percent"`
	QuotePrefix            string    `json:"quote_prefix"`
	DefaultPricingMode     string    `json:"default_pricing_mode"`
	DefaultHideSupplier    bool      `json:"default_hide_supplier"`
	DefaultPackSize        *int      `json:"default_pack_size"`
	DefaultDeliveryPerPack *float64  `json:"default_delivery_per_pack"`
	DefaultDeliveryFlat    *float64  `json:"default_delivery_flat"`
	UpdatedAt              time.Time `json:"updated_at"`
}
