package printmethods

import "time"

// PrintMethod carries the per-colour and per-unit costs used by auto pricing,
// plus a setup fee. Tiers are quantity breaks; they are stored and returned to
// clients but the pricing engine does not consult them.
type PrintMethod struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	PerColourCost float64   `json:"per_colour_cost"`
	PerUnitCost   float64   `json:"per_unit_cost"`
	SetupFee      float64   `json:"setup_fee"`
	Tiers         []Tier    `json:"tiers"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Tier struct {
	ID            int64   `json:"id"`
	PrintMethodID int64   `json:"print_method_id"`
	MinQty        int     `json:"min_qty"`
	PerUnitCost   float64 `json:"per_unit_cost"`
	PerColourCost float64 `json:"per_colour_cost"`
}
