package printmethods

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/printberry/printberry/internal/platform/db"
	"github.com/printberry/printberry/internal/platform/httpx"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context) ([]PrintMethod, error)
	Get(ctx context.Context, id int64) (PrintMethod, error)
	Create(ctx context.Context, pm PrintMethod) (int64, error)
	Update(ctx context.Context, id int64, pm PrintMethod) error
	Delete(ctx context.Context, id int64) error
	ReplaceTiers(ctx context.Context, printMethodID int64, tiers []Tier) error
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

func (r *repository) List(ctx context.Context) ([]PrintMethod, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, per_colour_cost, per_unit_cost, setup_fee, created_at, updated_at FROM print_methods ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []PrintMethod
	for rows.Next() {
		var pm PrintMethod
		if err := rows.Scan(&pm.ID, &pm.Name, &pm.PerColourCost, &pm.PerUnitCost, &pm.SetupFee, &pm.CreatedAt, &pm.UpdatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range methods {
		tiers, err := r.tiersFor(ctx, methods[i].ID)
		if err != nil {
			return nil, err
		}
		methods[i].Tiers = tiers
	}
	return methods, nil
}

func (r *repository) Get(ctx context.Context, id int64) (PrintMethod, error) {
	var pm PrintMethod
	err := r.db.QueryRow(ctx,
		`SELECT id, name, per_colour_cost, per_unit_cost, setup_fee, created_at, updated_at FROM print_methods WHERE id = $1`, id,
	).Scan(&pm.ID, &pm.Name, &pm.PerColourCost, &pm.PerUnitCost, &pm.SetupFee, &pm.CreatedAt, &pm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PrintMethod{}, httpx.ErrNotFound
	}
	if err != nil {
		return PrintMethod{}, err
	}
	pm.Tiers, err = r.tiersFor(ctx, id)
	return pm, err
}

func (r *repository) tiersFor(ctx context.Context, printMethodID int64) ([]Tier, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, print_method_id, min_qty, per_unit_cost, per_colour_cost FROM print_method_tiers WHERE print_method_id = $1 ORDER BY min_qty`, printMethodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tiers := []Tier{}
	for rows.Next() {
		var t Tier
		if err := rows.Scan(&t.ID, &t.PrintMethodID, &t.MinQty, &t.PerUnitCost, &t.PerColourCost); err != nil {
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

func (r *repository) Create(ctx context.Context, pm PrintMethod) (int64, error) {
	now := time.Now()
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO print_methods (name, per_colour_cost, per_unit_cost, setup_fee, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`,
		pm.Name, pm.PerColourCost, pm.PerUnitCost, pm.SetupFee, now,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, pm PrintMethod) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE print_methods SET name = $1, per_colour_cost = $2, per_unit_cost = $3, setup_fee = $4, updated_at = $5 WHERE id = $6`,
		pm.Name, pm.PerColourCost, pm.PerUnitCost, pm.SetupFee, time.Now(), id,
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
	tag, err := r.db.Exec(ctx, `DELETE FROM print_methods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) ReplaceTiers(ctx context.Context, printMethodID int64, tiers []Tier) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM print_method_tiers WHERE print_method_id = $1`, printMethodID); err != nil {
		return err
	}
	for _, t := range tiers {
		_, err := r.db.Exec(ctx,
			`INSERT INTO print_method_tiers (print_method_id, min_qty, per_unit_cost, per_colour_cost) VALUES ($1, $2, $3, $4)`,
			printMethodID, t.MinQty, t.PerUnitCost, t.PerColourCost,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
