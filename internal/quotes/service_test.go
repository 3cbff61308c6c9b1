package quotes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printberry/printberry/internal/catalog/customers"
	"github.com/printberry/printberry/internal/catalog/printmethods"
	"github.com/printberry/printberry/internal/platform/httpx"
	"github.com/printberry/printberry/internal/settings"
)

type mockRepository struct {
	quotes    map[int64]Quote
	lines     map[int64][]QuoteLine
	sequences map[string]int64
	nextID    int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quotes:    map[int64]Quote{},
		lines:     map[int64][]QuoteLine{},
		sequences: map[string]int64{},
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) GenerateNumber(_ context.Context, prefix string, year int) (string, error) {
	key := fmt.Sprintf("%s-%d", prefix, year)
	m.sequences[key]++
	return fmt.Sprintf("%s-%d-%03d", prefix, year, m.sequences[key]), nil
}

func (m *mockRepository) Create(_ context.Context, q Quote) (int64, error) {
	m.nextID++
	q.ID = m.nextID
	q.Lines = nil
	m.quotes[q.ID] = q
	return q.ID, nil
}

func (m *mockRepository) InsertLine(_ context.Context, line QuoteLine) (int64, error) {
	line.ID = int64(len(m.lines[line.QuoteID]) + 1)
	m.lines[line.QuoteID] = append(m.lines[line.QuoteID], line)
	return line.ID, nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return Quote{}, httpx.ErrNotFound
	}
	q.Lines = append([]QuoteLine(nil), m.lines[id]...)
	return q, nil
}

func (m *mockRepository) GetDocument(ctx context.Context, id int64) (Document, error) {
	q, err := m.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	doc := Document{Quote: q, CompanyName: "Acme"}
	for _, l := range q.Lines {
		doc.Lines = append(doc.Lines, DocumentLine{QuoteLine: l})
	}
	return doc, nil
}

func (m *mockRepository) List(_ context.Context, req ListQuotesRequest) ([]QuoteSummary, error) {
	var out []QuoteSummary
	for _, q := range m.quotes {
		if req.Status != "" && q.Status != req.Status {
			continue
		}
		out = append(out, QuoteSummary{Quote: q, CompanyName: "Acme"})
	}
	return out, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, req UpdateQuoteRequest) error {
	q, ok := m.quotes[id]
	if !ok {
		return httpx.ErrNotFound
	}
	if req.Status != nil {
		q.Status = *req.Status
	}
	if req.Notes != nil {
		q.Notes = *req.Notes
	}
	if req.Terms != nil {
		q.Terms = *req.Terms
	}
	m.quotes[id] = q
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.quotes[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.quotes, id)
	delete(m.lines, id)
	return nil
}

func (m *mockRepository) ListForExport(_ context.Context) ([]ExportRow, error) {
	var out []ExportRow
	for _, q := range m.quotes {
		out = append(out, ExportRow{
			QuoteNumber: q.QuoteNumber,
			Date:        q.Date,
			Status:      q.Status,
			Subtotal:    q.Subtotal,
			Vat:         q.Vat,
			Total:       q.Total,
			CompanyName: "Acme",
		})
	}
	return out, nil
}

type mockSettingsRepo struct {
	settings settings.Settings
}

func (m *mockSettingsRepo) Get(context.Context) (settings.Settings, error) {
	return m.settings, nil
}

func (m *mockSettingsRepo) Update(context.Context, settings.UpdateSettingsRequest) error {
	return nil
}

type mockCustomersRepo struct {
	customers map[int64]customers.Customer
}

func (m *mockCustomersRepo) List(context.Context, customers.ListCustomersRequest) ([]customers.Customer, error) {
	return nil, nil
}

func (m *mockCustomersRepo) Get(_ context.Context, id int64) (customers.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return customers.Customer{}, httpx.ErrNotFound
	}
	return c, nil
}

func (m *mockCustomersRepo) Create(_ context.Context, c customers.Customer) (customers.Customer, error) {
	return c, nil
}

func (m *mockCustomersRepo) Update(context.Context, int64, customers.Customer) error { return nil }
func (m *mockCustomersRepo) Delete(context.Context, int64) error                     { return nil }

type mockPrintMethodsRepo struct {
	methods map[int64]printmethods.PrintMethod
}

func (m *mockPrintMethodsRepo) WithTx(ctx context.Context, fn func(context.Context, printmethods.Repository) error) error {
	return fn(ctx, m)
}

func (m *mockPrintMethodsRepo) List(context.Context) ([]printmethods.PrintMethod, error) {
	return nil, nil
}

func (m *mockPrintMethodsRepo) Get(_ context.Context, id int64) (printmethods.PrintMethod, error) {
	pm, ok := m.methods[id]
	if !ok {
		return printmethods.PrintMethod{}, httpx.ErrNotFound
	}
	return pm, nil
}

func (m *mockPrintMethodsRepo) Create(context.Context, printmethods.PrintMethod) (int64, error) {
	return 0, nil
}

func (m *mockPrintMethodsRepo) Update(context.Context, int64, printmethods.PrintMethod) error {
	return nil
}

func (m *mockPrintMethodsRepo) Delete(context.Context, int64) error { return nil }

func (m *mockPrintMethodsRepo) ReplaceTiers(context.Context, int64, []printmethods.Tier) error {
	return nil
}

func newTestService(repo *mockRepository) *Service {
	return NewService(
		repo,
		&mockSettingsRepo{settings: settings.Settings{
			VatPercent:           20,
			DefaultMarkupPercent: 30,
			QuotePrefix:          "PB",
			DefaultPricingMode:   "auto",
			DefaultHideSupplier:  true,
		}},
		&mockCustomersRepo{customers: map[int64]customers.Customer{
			7: {ID: 7, CompanyName: "Acme"},
		}},
		&mockPrintMethodsRepo{methods: map[int64]printmethods.PrintMethod{
			3: {ID: 3, Name: "Screen Print", PerColourCost: 0.20, PerUnitCost: 0.90},
		}},
	)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func int64Ptr(v int64) *int64     { return &v }
func strPtr(v string) *string     { return &v }

func TestCreateQuotePricesAndAggregates(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerID: 7,
		Lines: []CreateQuoteLineRequest{
			{
				ProductID:       int64Ptr(1),
				PrintMethodID:   int64Ptr(3),
				Colours:         2,
				Quantity:        100,
				ProductUnitCost: floatPtr(1.50),
			},
			{
				ManualProductName:     strPtr("Rush fee"),
				ManualPrintMethodName: strPtr("N/A"),
				PricingMode:           "manual_total",
				Quantity:              1,
				ManualTotal:           floatPtr(50),
			},
		},
	})
	require.NoError(t, err)

	// Line 1: print 0.20*2*100=40, cost (1.50+0.40)*100=190, sell 190*1.3=247.
	require.Len(t, quote.Lines, 2)
	assert.InDelta(t, 247.0, quote.Lines[0].SellingPrice, 1e-9)
	assert.InDelta(t, 50.0, quote.Lines[1].SellingPrice, 1e-9)

	assert.InDelta(t, 297.0, quote.Subtotal, 1e-9)
	assert.InDelta(t, 59.4, quote.Vat, 1e-9)
	assert.InDelta(t, 356.4, quote.Total, 1e-9)

	assert.Equal(t, QuoteStatusPending, quote.Status)
	assert.Equal(t, fmt.Sprintf("PB-%d-001", time.Now().Year()), quote.QuoteNumber)
	// Defaults frozen from settings.
	assert.InDelta(t, 30.0, quote.MarkupPercent, 1e-9)
	assert.InDelta(t, 20.0, quote.VatPercent, 1e-9)
	assert.True(t, quote.HideSupplierInPDF)
}

func TestCreateQuoteOverridesFreezeOnQuote(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	hide := false
	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerID:        7,
		MarkupPercent:     floatPtr(50),
		VatPercent:        floatPtr(0),
		HideSupplierInPDF: &hide,
		Lines: []CreateQuoteLineRequest{
			{ProductID: int64Ptr(1), ManualPrintMethodName: strPtr("Unprinted"), Quantity: 10, ProductUnitCost: floatPtr(2)},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 50.0, quote.MarkupPercent, 1e-9)
	assert.Zero(t, quote.VatPercent)
	assert.False(t, quote.HideSupplierInPDF)
	// 2*10=20 cost, 50% markup -> 30, zero VAT.
	assert.InDelta(t, 30.0, quote.Subtotal, 1e-9)
	assert.InDelta(t, 30.0, quote.Total, 1e-9)
}

func TestCreateQuoteNumbersAreSequential(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	req := CreateQuoteRequest{
		CustomerID: 7,
		Lines: []CreateQuoteLineRequest{
			{ProductID: int64Ptr(1), ManualPrintMethodName: strPtr("Unprinted"), Quantity: 1, ProductUnitCost: floatPtr(1)},
		},
	}
	year := time.Now().Year()
	for i := 1; i <= 3; i++ {
		quote, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PB-%d-%03d", year, i), quote.QuoteNumber)
	}
}

func TestCreateQuoteSequenceSurvivesDelete(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	req := CreateQuoteRequest{
		CustomerID: 7,
		Lines: []CreateQuoteLineRequest{
			{ProductID: int64Ptr(1), ManualPrintMethodName: strPtr("Unprinted"), Quantity: 1, ProductUnitCost: floatPtr(1)},
		},
	}
	first, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), first.ID))

	second, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PB-%d-002", time.Now().Year()), second.QuoteNumber)
}

func TestCreateQuoteRejectsInvalidLinesWithoutWriting(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerID: 7,
		Lines: []CreateQuoteLineRequest{
			{ProductID: int64Ptr(1), Quantity: 5, ProductUnitCost: floatPtr(1)},
			{ProductID: int64Ptr(2), Quantity: 0, ProductUnitCost: floatPtr(1)},
			{PricingMode: "manual_total"},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Contains(t, err.Error(), "Line 2: quantity must be greater than 0")
	assert.Contains(t, err.Error(), "Line 3: a product or manual product name is required")
	assert.Contains(t, err.Error(), "Line 3: manual total must be provided")

	assert.Empty(t, repo.quotes)
	assert.Empty(t, repo.lines)
	assert.Empty(t, repo.sequences)
}

func TestCreateQuoteRequiresLines(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateQuoteRequest{CustomerID: 7})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Empty(t, repo.quotes)
}

func TestCreateQuoteUnknownCustomer(t *testing.T) {
	svc := newTestService(newMockRepository())

	_, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerID: 999,
		Lines: []CreateQuoteLineRequest{
			{ProductID: int64Ptr(1), ManualPrintMethodName: strPtr("Unprinted"), Quantity: 1, ProductUnitCost: floatPtr(1)},
		},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateQuoteUnknownPrintMethod(t *testing.T) {
	svc := newTestService(newMockRepository())

	_, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerID: 7,
		Lines: []CreateQuoteLineRequest{
			{ProductID: int64Ptr(1), PrintMethodID: int64Ptr(42), Quantity: 1, ProductUnitCost: floatPtr(1)},
		},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCloneCopiesFiguresVerbatim(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	src, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerID:    7,
		MarkupPercent: floatPtr(40),
		Notes:         "original notes",
		Lines: []CreateQuoteLineRequest{
			{ProductID: int64Ptr(1), PrintMethodID: int64Ptr(3), Colours: 1, Quantity: 100, ProductUnitCost: floatPtr(1)},
		},
	})
	require.NoError(t, err)

	sent := QuoteStatusSent
	_, err = svc.Update(context.Background(), src.ID, UpdateQuoteRequest{Status: &sent})
	require.NoError(t, err)

	clone, err := svc.Clone(context.Background(), src.ID)
	require.NoError(t, err)

	assert.NotEqual(t, src.QuoteNumber, clone.QuoteNumber)
	assert.Equal(t, QuoteStatusPending, clone.Status)
	assert.Equal(t, src.CustomerID, clone.CustomerID)
	assert.Equal(t, src.Notes, clone.Notes)

	// Financials carried over untouched, not repriced.
	assert.InDelta(t, src.Subtotal, clone.Subtotal, 1e-9)
	assert.InDelta(t, src.Vat, clone.Vat, 1e-9)
	assert.InDelta(t, src.Total, clone.Total, 1e-9)
	assert.InDelta(t, src.MarkupPercent, clone.MarkupPercent, 1e-9)
	require.Len(t, clone.Lines, len(src.Lines))
	assert.InDelta(t, src.Lines[0].SellingPrice, clone.Lines[0].SellingPrice, 1e-9)
	assert.InDelta(t, src.Lines[0].LineTotalCost, clone.Lines[0].LineTotalCost, 1e-9)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerID: 7,
		Lines: []CreateQuoteLineRequest{
			{ProductID: int64Ptr(1), ManualPrintMethodName: strPtr("Unprinted"), Quantity: 1, ProductUnitCost: floatPtr(1)},
		},
	})
	require.NoError(t, err)

	bogus := QuoteStatus("Archived")
	_, err = svc.Update(context.Background(), quote.ID, UpdateQuoteRequest{Status: &bogus})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc := newTestService(newMockRepository())
	_, err := svc.List(context.Background(), ListQuotesRequest{Status: "Archived"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestManualUnitLineUsesPackDelivery(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerID: 7,
		VatPercent: floatPtr(0),
		Lines: []CreateQuoteLineRequest{
			{
				ProductID:             int64Ptr(1),
				ManualPrintMethodName: strPtr("Unprinted"),
				PricingMode:           "manual_unit",
				Quantity:              250,
				ManualUnitPrice:       floatPtr(0.80),
				ProductUnitCost:       floatPtr(0.30),
				PackSize:              intPtr(100),
				DeliveryPerPack:       floatPtr(5),
				DeliveryFlat:          floatPtr(10),
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, quote.Lines, 1)
	line := quote.Lines[0]
	assert.InDelta(t, 225.0, line.SellingPrice, 1e-9) // 0.80*250 + ceil(250/100)*5 + 10
	assert.InDelta(t, 75.0, line.LineTotalCost, 1e-9)
	assert.Zero(t, line.PrintCostTotal)
	assert.InDelta(t, 225.0, quote.Total, 1e-9)
}
