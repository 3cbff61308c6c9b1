package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/printberry/printberry/internal/platform/httpx"
)

type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (Settings, error) {
	const query = `SELECT id, vat_percent, default_markup_percent, quote_prefix, default_pricing_mode,
		default_hide_supplier, default_pack_size, default_delivery_per_pack, default_delivery_flat, updated_at
		FROM settings WHERE id = 1`

	var s Settings
	err := r.db.QueryRow(ctx, query).Scan(
		&s.ID, &s.VatPercent, &s.DefaultMarkupPercent, &s.QuotePrefix, &s.DefaultPricingMode,
		&s.DefaultHideSupplier, &s.DefaultPackSize, &s.DefaultDeliveryPerPack, &s.DefaultDeliveryFlat, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repository) Update(ctx context.Context, req UpdateSettingsRequest) error {
	const query = `UPDATE settings SET
		vat_percent = COALESCE($1, vat_percent),
		default_markup_percent = COALESCE($2, default_markup_percent),
		quote_prefix = COALESCE($3, quote_prefix),
		default_pricing_mode = COALESCE($4, default_pricing_mode),
		default_hide_supplier = COALESCE($5, default_hide_supplier),
		default_pack_size = COALESCE($6, default_pack_size),
		default_delivery_per_pack = COALESCE($7, default_delivery_per_pack),
		default_delivery_flat = COALESCE($8, default_delivery_flat),
		updated_at = NOW()
		WHERE id = 1`

	_, err := r.db.Exec(ctx, query,
		req.VatPercent, req.DefaultMarkupPercent, req.QuotePrefix, req.DefaultPricingMode,
		req.DefaultHideSupplier, req.DefaultPackSize, req.DefaultDeliveryPerPack, req.DefaultDeliveryFlat,
	)
	return err
}
