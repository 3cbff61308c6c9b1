package products

import "time"

// Product is a catalog item that can be quoted. Supplier rows are informational
// cost sources owned by the product; they are not authoritative for pricing.
type Product struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	SKU       string     `json:"sku"`
	Suppliers []Supplier `json:"suppliers"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Supplier struct {
	ID           int64    `json:"id"`
	ProductID    int64    `json:"product_id"`
	SupplierName string   `json:"supplier_name"`
	UnitCost     float64  `json:"unit_cost"`
	MOQ          int      `json:"moq"`
	BulkPrice    *float64 `json:"bulk_price"`
}
