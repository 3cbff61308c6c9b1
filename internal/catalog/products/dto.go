package products

type SupplierReq struct {
	SupplierName string   `json:"supplier_name" validate:"required,max=200"`
	UnitCost     float64  `json:"unit_cost" validate:"gte=0"`
	MOQ          int      `json:"moq" validate:"gte=0"`
	BulkPrice    *float64 `json:"bulk_price" validate:"omitempty,gte=0"`
}

type UpsertProductRequest struct {
	Name      string        `json:"name" validate:"required,max=200"`
	Category  string        `json:"category" validate:"max=100"`
	SKU       string        `json:"sku" validate:"max=100"`
	Suppliers []SupplierReq `json:"suppliers" validate:"dive"`
}

type ListProductsRequest struct {
	Search   string
	Category string
}

// ImportResult summarises a bulk CSV import run.
type ImportResult struct {
	ImportID string `json:"import_id"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}
