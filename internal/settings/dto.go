package settings

// UpdateSettingsRequest carries a partial settings update. Nil fields keep
// their stored value.
type UpdateSettingsRequest struct {
	VatPercent             *float64 `json:"vat_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	DefaultMarkupPercent   *float64 `json:"default_markup_percent,omitempty" validate:"omitempty,gte=0"`
	QuotePrefix            *string  `json:"quote_prefix,omitempty" validate:"omitempty,alphanum,max=10"`
	DefaultPricingMode     *string  `json:"default_pricing_mode,omitempty" validate:"omitempty,oneof=auto manual_unit manual_total"`
	DefaultHideSupplier    *bool    `json:"default_hide_supplier,omitempty"`
	DefaultPackSize        *int     `json:"default_pack_size,omitempty" validate:"omitempty,gt=0"`
	DefaultDeliveryPerPack *float64 `json:"default_delivery_per_pack,omitempty" validate:"omitempty,gte=0"`
	DefaultDeliveryFlat    *float64 `json:"default_delivery_flat,omitempty" validate:"omitempty,gte=0"`
}
