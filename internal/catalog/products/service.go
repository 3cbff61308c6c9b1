package products

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/printberry/printberry/internal/platform/httpx"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req UpsertProductRequest) (Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return Product{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
	}

	var productID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, Product{Name: req.Name, Category: req.Category, SKU: req.SKU})
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		productID = id
		return repo.ReplaceSuppliers(ctx, id, mapSuppliers(req.Suppliers))
	})
	if err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, productID)
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertProductRequest) (Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return Product{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, id, Product{Name: req.Name, Category: req.Category, SKU: req.SKU}); err != nil {
			return err
		}
		return repo.ReplaceSuppliers(ctx, id, mapSuppliers(req.Suppliers))
	})
	if err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ImportCSV ingests rows of name,category,sku,supplier_name,unit_cost,moq,bulk_price.
// Products are matched by (name, sku); supplier rows append to the matched
// product. The whole file is applied in one transaction.
func (s *Service) ImportCSV(ctx context.Context, file io.Reader) (ImportResult, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: empty or unreadable CSV", httpx.ErrValidation)
	}
	col := columnIndex(header)
	if _, ok := col["name"]; !ok {
		return ImportResult{}, fmt.Errorf("%w: CSV is missing a name column", httpx.ErrValidation)
	}

	result := ImportResult{ImportID: uuid.NewString()}
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		for {
			record, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("%w: malformed CSV row: %s", httpx.ErrValidation, err.Error())
			}

			name := field(record, col, "name")
			if name == "" {
				result.Skipped++
				continue
			}
			sku := field(record, col, "sku")

			productID, err := repo.FindByNameSKU(ctx, name, sku)
			if errors.Is(err, httpx.ErrNotFound) {
				productID, err = repo.Create(ctx, Product{
					Name:     name,
					Category: field(record, col, "category"),
					SKU:      sku,
				})
			}
			if err != nil {
				return fmt.Errorf("import product %q: %w", name, err)
			}

			if supplierName := field(record, col, "supplier_name"); supplierName != "" {
				supplier := Supplier{
					ProductID:    productID,
					SupplierName: supplierName,
					UnitCost:     parseFloat(field(record, col, "unit_cost")),
					MOQ:          parseInt(field(record, col, "moq"), 1),
				}
				if bulk := field(record, col, "bulk_price"); bulk != "" {
					v := parseFloat(bulk)
					supplier.BulkPrice = &v
				}
				if _, err := repo.InsertSupplier(ctx, supplier); err != nil {
					return fmt.Errorf("import supplier for %q: %w", name, err)
				}
			}
			result.Imported++
		}
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

func mapSuppliers(reqs []SupplierReq) []Supplier {
	suppliers := make([]Supplier, 0, len(reqs))
	for _, sr := range reqs {
		suppliers = append(suppliers, Supplier{
			SupplierName: sr.SupplierName,
			UnitCost:     sr.UnitCost,
			MOQ:          sr.MOQ,
			BulkPrice:    sr.BulkPrice,
		})
	}
	return suppliers
}

func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return col
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
