package products

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/printberry/printberry/internal/platform/db"
	"github.com/printberry/printberry/internal/platform/httpx"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, req ListProductsRequest) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, id int64, p Product) error
	Delete(ctx context.Context, id int64) error
	FindByNameSKU(ctx context.Context, name, sku string) (int64, error)
	ReplaceSuppliers(ctx context.Context, productID int64, suppliers []Supplier) error
	InsertSupplier(ctx context.Context, s Supplier) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) List(ctx context.Context, req ListProductsRequest) ([]Product, error) {
	query := `SELECT id, name, COALESCE(category, ''), COALESCE(sku, ''), created_at, updated_at FROM products WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if req.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR sku ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+req.Search+"%")
	}
	if req.Category != "" {
		argCount++
		query += ` AND category = $` + strconv.Itoa(argCount)
		args = append(args, req.Category)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.SKU, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		suppliers, err := r.suppliersFor(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Suppliers = suppliers
	}
	return products, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(category, ''), COALESCE(sku, ''), created_at, updated_at FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Category, &p.SKU, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, httpx.ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	p.Suppliers, err = r.suppliersFor(ctx, id)
	return p, err
}

func (r *repository) suppliersFor(ctx context.Context, productID int64) ([]Supplier, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, supplier_name, unit_cost, moq, bulk_price FROM suppliers WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := []Supplier{}
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.ProductID, &s.SupplierName, &s.UnitCost, &s.MOQ, &s.BulkPrice); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Product) (int64, error) {
	now := time.Now()
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, category, sku, created_at, updated_at) VALUES ($1, $2, $3, $4, $4) RETURNING id`,
		p.Name, nullIfEmpty(p.Category), nullIfEmpty(p.SKU), now,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, p Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET name = $1, category = $2, sku = $3, updated_at = $4 WHERE id = $5`,
		p.Name, nullIfEmpty(p.Category), nullIfEmpty(p.SKU), time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// FindByNameSKU locates a product by its import identity. Empty sku matches
// rows with NULL or empty sku.
func (r *repository) FindByNameSKU(ctx context.Context, name, sku string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT id FROM products WHERE name = $1 AND COALESCE(sku, '') = $2`, name, sku,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, httpx.ErrNotFound
	}
	return id, err
}

func (r *repository) ReplaceSuppliers(ctx context.Context, productID int64, suppliers []Supplier) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE product_id = $1`, productID); err != nil {
		return err
	}
	for _, s := range suppliers {
		s.ProductID = productID
		if _, err := r.InsertSupplier(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) InsertSupplier(ctx context.Context, s Supplier) (int64, error) {
	moq := s.MOQ
	if moq <= 0 {
		moq = 1
	}
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO suppliers (product_id, supplier_name, unit_cost, moq, bulk_price) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		s.ProductID, s.SupplierName, s.UnitCost, moq, s.BulkPrice,
	).Scan(&id)
	return id, err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
