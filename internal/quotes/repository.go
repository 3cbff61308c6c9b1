package quotes

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/printberry/printberry/internal/platform/db"
	"github.com/printberry/printberry/internal/platform/httpx"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	GenerateNumber(ctx context.Context, prefix string, year int) (string, error)
	Create(ctx context.Context, q Quote) (int64, error)
	InsertLine(ctx context.Context, line QuoteLine) (int64, error)
	Get(ctx context.Context, id int64) (Quote, error)
	GetDocument(ctx context.Context, id int64) (Document, error)
	List(ctx context.Context, req ListQuotesRequest) ([]QuoteSummary, error)
	Update(ctx context.Context, id int64, req UpdateQuoteRequest) error
	Delete(ctx context.Context, id int64) error
	ListForExport(ctx context.Context) ([]ExportRow, error)
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

// GenerateNumber allocates the next number for the prefix and year from a
// persistent counter. Counters only move forward, so deleting a quote never
// frees its number for reuse. Call this inside the creating transaction: a
// failed creation rolls the increment back with everything else.
func (r *repository) GenerateNumber(ctx context.Context, prefix string, year int) (string, error) {
	var seq int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO quote_sequences (prefix, year, seq) VALUES ($1, $2, 1)
		 ON CONFLICT (prefix, year) DO UPDATE SET seq = quote_sequences.seq + 1
		 RETURNING seq`,
		prefix, year,
	).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("generate quote number: %w", err)
	}
	return fmt.Sprintf("%s-%d-%03d", prefix, year, seq), nil
}

func (r *repository) Create(ctx context.Context, q Quote) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO quotes (quote_number, customer_id, date, status, subtotal, vat, total,
		                     notes, terms, markup_percent, vat_percent, hide_supplier_in_pdf)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		q.QuoteNumber, q.CustomerID, q.Date, q.Status, q.Subtotal, q.Vat, q.Total,
		q.Notes, q.Terms, q.MarkupPercent, q.VatPercent, q.HideSupplierInPDF,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return 0, httpx.ErrDuplicate
			case "23503":
				return 0, fmt.Errorf("%w: customer does not exist", httpx.ErrValidation)
			}
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) InsertLine(ctx context.Context, line QuoteLine) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO quote_lines (quote_id, product_id, supplier_id, print_method_id, colours, quantity,
		                          product_unit_cost, print_cost_total, line_total_cost, selling_price,
		                          pricing_mode, manual_unit_price, manual_total, pack_size,
		                          delivery_per_pack, delivery_flat, line_description,
		                          manual_product_name, manual_print_method_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING id`,
		line.QuoteID, line.ProductID, line.SupplierID, line.PrintMethodID, line.Colours, line.Quantity,
		line.ProductUnitCost, line.PrintCostTotal, line.LineTotalCost, line.SellingPrice,
		line.PricingMode, line.ManualUnitPrice, line.ManualTotal, line.PackSize,
		line.DeliveryPerPack, line.DeliveryFlat, line.LineDescription,
		line.ManualProductName, line.ManualPrintMethodName,
	).Scan(&id)
	return id, err
}

const quoteColumns = `id, quote_number, customer_id, date, status, subtotal, vat, total,
	notes, terms, markup_percent, vat_percent, hide_supplier_in_pdf`

func scanQuote(row pgx.Row, q *Quote) error {
	return row.Scan(&q.ID, &q.QuoteNumber, &q.CustomerID, &q.Date, &q.Status,
		&q.Subtotal, &q.Vat, &q.Total, &q.Notes, &q.Terms,
		&q.MarkupPercent, &q.VatPercent, &q.HideSupplierInPDF)
}

func (r *repository) Get(ctx context.Context, id int64) (Quote, error) {
	var q Quote
	err := scanQuote(r.db.QueryRow(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id), &q)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, httpx.ErrNotFound
	}
	if err != nil {
		return Quote{}, err
	}
	q.Lines, err = r.linesFor(ctx, id)
	return q, err
}

const lineColumns = `id, quote_id, product_id, supplier_id, print_method_id, colours, quantity,
	product_unit_cost, print_cost_total, line_total_cost, selling_price, pricing_mode,
	manual_unit_price, manual_total, pack_size, delivery_per_pack, delivery_flat,
	line_description, manual_product_name, manual_print_method_name`

func scanLine(rows pgx.Rows, l *QuoteLine) error {
	return rows.Scan(&l.ID, &l.QuoteID, &l.ProductID, &l.SupplierID, &l.PrintMethodID,
		&l.Colours, &l.Quantity, &l.ProductUnitCost, &l.PrintCostTotal, &l.LineTotalCost,
		&l.SellingPrice, &l.PricingMode, &l.ManualUnitPrice, &l.ManualTotal, &l.PackSize,
		&l.DeliveryPerPack, &l.DeliveryFlat, &l.LineDescription,
		&l.ManualProductName, &l.ManualPrintMethodName)
}

func (r *repository) linesFor(ctx context.Context, quoteID int64) ([]QuoteLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+lineColumns+` FROM quote_lines WHERE quote_id = $1 ORDER BY id`, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []QuoteLine{}
	for rows.Next() {
		var l QuoteLine
		if err := scanLine(rows, &l); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) GetDocument(ctx context.Context, id int64) (Document, error) {
	var d Document
	err := r.db.QueryRow(ctx,
		`SELECT q.id, q.quote_number, q.customer_id, q.date, q.status, q.subtotal, q.vat, q.total,
		        q.notes, q.terms, q.markup_percent, q.vat_percent, q.hide_supplier_in_pdf,
		        c.company_name, c.contact_person, c.email, c.phone, c.address
		 FROM quotes q
		 JOIN customers c ON c.id = q.customer_id
		 WHERE q.id = $1`, id,
	).Scan(&d.ID, &d.QuoteNumber, &d.CustomerID, &d.Date, &d.Status,
		&d.Subtotal, &d.Vat, &d.Total, &d.Notes, &d.Terms,
		&d.MarkupPercent, &d.VatPercent, &d.HideSupplierInPDF,
		&d.CompanyName, &d.ContactPerson, &d.Email, &d.Phone, &d.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, httpx.ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT l.id, l.quote_id, l.product_id, l.supplier_id, l.print_method_id, l.colours, l.quantity,
		        l.product_unit_cost, l.print_cost_total, l.line_total_cost, l.selling_price, l.pricing_mode,
		        l.manual_unit_price, l.manual_total, l.pack_size, l.delivery_per_pack, l.delivery_flat,
		        l.line_description, l.manual_product_name, l.manual_print_method_name,
		        COALESCE(p.name, ''), COALESCE(pm.name, ''), COALESCE(ps.supplier_name, '')
		 FROM quote_lines l
		 LEFT JOIN products p ON p.id = l.product_id
		 LEFT JOIN print_methods pm ON pm.id = l.print_method_id
		 LEFT JOIN suppliers ps ON ps.id = l.supplier_id
		 WHERE l.quote_id = $1
		 ORDER BY l.id`, id)
	if err != nil {
		return Document{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var dl DocumentLine
		err := rows.Scan(&dl.ID, &dl.QuoteID, &dl.ProductID, &dl.SupplierID, &dl.PrintMethodID,
			&dl.Colours, &dl.Quantity, &dl.ProductUnitCost, &dl.PrintCostTotal, &dl.LineTotalCost,
			&dl.SellingPrice, &dl.PricingMode, &dl.ManualUnitPrice, &dl.ManualTotal, &dl.PackSize,
			&dl.DeliveryPerPack, &dl.DeliveryFlat, &dl.LineDescription,
			&dl.ManualProductName, &dl.ManualPrintMethodName,
			&dl.ProductName, &dl.PrintMethodName, &dl.SupplierName)
		if err != nil {
			return Document{}, err
		}
		d.Lines = append(d.Lines, dl)
	}
	return d, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListQuotesRequest) ([]QuoteSummary, error) {
	query := `SELECT q.id, q.quote_number, q.customer_id, q.date, q.status, q.subtotal, q.vat, q.total,
	                 q.notes, q.terms, q.markup_percent, q.vat_percent, q.hide_supplier_in_pdf,
	                 c.company_name
	          FROM quotes q
	          JOIN customers c ON c.id = q.customer_id
	          WHERE 1=1`
	args := []interface{}{}

	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (q.quote_number ILIKE $` + n + ` OR c.company_name ILIKE $` + n + `)`
	}
	if req.Status != "" {
		args = append(args, req.Status)
		query += ` AND q.status = $` + strconv.Itoa(len(args))
	}
	if req.CustomerID > 0 {
		args = append(args, req.CustomerID)
		query += ` AND q.customer_id = $` + strconv.Itoa(len(args))
	}
	if req.From != nil {
		args = append(args, *req.From)
		query += ` AND q.date >= $` + strconv.Itoa(len(args))
	}
	if req.To != nil {
		args = append(args, *req.To)
		query += ` AND q.date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY q.id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []QuoteSummary
	for rows.Next() {
		var qs QuoteSummary
		err := rows.Scan(&qs.ID, &qs.QuoteNumber, &qs.CustomerID, &qs.Date, &qs.Status,
			&qs.Subtotal, &qs.Vat, &qs.Total, &qs.Notes, &qs.Terms,
			&qs.MarkupPercent, &qs.VatPercent, &qs.HideSupplierInPDF, &qs.CompanyName)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, qs)
	}
	return quotes, rows.Err()
}

func (r *repository) Update(ctx context.Context, id int64, req UpdateQuoteRequest) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE quotes SET
		   status = COALESCE($1, status),
		   notes  = COALESCE($2, notes),
		   terms  = COALESCE($3, terms)
		 WHERE id = $4`,
		req.Status, req.Notes, req.Terms, id,
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
	tag, err := r.db.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) ListForExport(ctx context.Context) ([]ExportRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT q.quote_number, q.date, q.status, q.subtotal, q.vat, q.total, c.company_name
		 FROM quotes q
		 JOIN customers c ON c.id = q.customer_id
		 ORDER BY q.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExportRow
	for rows.Next() {
		var row ExportRow
		if err := rows.Scan(&row.QuoteNumber, &row.Date, &row.Status, &row.Subtotal, &row.Vat, &row.Total, &row.CompanyName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
