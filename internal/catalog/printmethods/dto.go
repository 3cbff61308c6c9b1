package printmethods

type TierReq struct {
	MinQty        int     `json:"min_qty" validate:"gte=0"`
	PerUnitCost   float64 `json:"per_unit_cost" validate:"gte=0"`
	PerColourCost float64 `json:"per_colour_cost" validate:"gte=0"`
}

type UpsertPrintMethodRequest struct {
	Name          string    `json:"name" validate:"required,max=200"`
	PerColourCost float64   `json:"per_colour_cost" validate:"gte=0"`
	PerUnitCost   float64   `json:"per_unit_cost" validate:"gte=0"`
	SetupFee      float64   `json:"setup_fee" validate:"gte=0"`
	Tiers         []TierReq `json:"tiers" validate:"dive"`
}

type ImportResult struct {
	ImportID string `json:"import_id"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}
