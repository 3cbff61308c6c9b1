package customers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/printberry/printberry/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, id int64, c Customer) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const customerColumns = `id, company_name, contact_person, email, phone, address, created_at, updated_at`

func (r *repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []interface{}{}
	if req.Search != "" {
		query += ` WHERE company_name ILIKE $1 OR contact_person ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+req.Search+"%")
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.CompanyName, &c.ContactPerson, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Customer, error) {
	var c Customer
	err := r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.CompanyName, &c.ContactPerson, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, c Customer) (Customer, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx,
		`INSERT INTO customers (company_name, contact_person, email, phone, address, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`,
		c.CompanyName, c.ContactPerson, c.Email, c.Phone, c.Address, now,
	).Scan(&c.ID)
	if err != nil {
		return Customer{}, err
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *repository) Update(ctx context.Context, id int64, c Customer) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE customers SET company_name = $1, contact_person = $2, email = $3, phone = $4, address = $5, updated_at = $6 WHERE id = $7`,
		c.CompanyName, c.ContactPerson, c.Email, c.Phone, c.Address, time.Now(), id,
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
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503: foreign_key_violation, the customer is referenced by quotes.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return httpx.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
