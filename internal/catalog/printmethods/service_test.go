package printmethods

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printberry/printberry/internal/platform/httpx"
)

type mockRepository struct {
	methods map[int64]PrintMethod
	tiers   map[int64][]Tier
	nextID  int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{methods: map[int64]PrintMethod{}, tiers: map[int64][]Tier{}}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) List(context.Context) ([]PrintMethod, error) { return nil, nil }

func (m *mockRepository) Get(_ context.Context, id int64) (PrintMethod, error) {
	pm, ok := m.methods[id]
	if !ok {
		return PrintMethod{}, httpx.ErrNotFound
	}
	pm.Tiers = m.tiers[id]
	return pm, nil
}

func (m *mockRepository) Create(_ context.Context, pm PrintMethod) (int64, error) {
	m.nextID++
	pm.ID = m.nextID
	m.methods[pm.ID] = pm
	return pm.ID, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, pm PrintMethod) error {
	if _, ok := m.methods[id]; !ok {
		return httpx.ErrNotFound
	}
	pm.ID = id
	m.methods[id] = pm
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.methods[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.methods, id)
	return nil
}

func (m *mockRepository) ReplaceTiers(_ context.Context, printMethodID int64, tiers []Tier) error {
	m.tiers[printMethodID] = tiers
	return nil
}

func TestCreatePrintMethodWithTiers(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	pm, err := svc.Create(context.Background(), UpsertPrintMethodRequest{
		Name:          "Screen Print",
		PerColourCost: 0.20,
		PerUnitCost:   0.90,
		SetupFee:      25,
		Tiers: []TierReq{
			{MinQty: 500, PerColourCost: 0.15},
			{MinQty: 1000, PerColourCost: 0.10},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Screen Print", pm.Name)
	require.Len(t, pm.Tiers, 2)
	assert.Equal(t, 500, pm.Tiers[0].MinQty)
}

func TestCreatePrintMethodRequiresName(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.Create(context.Background(), UpsertPrintMethodRequest{PerUnitCost: 1})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestImportCSV(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	csvData := strings.Join([]string{
		"name,per_colour_cost,per_unit_cost,setup_fee",
		"Screen Print,0.20,0.90,25",
		"Embroidery,,1.80,15",
		",0.10,0.10,0",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.NotEmpty(t, result.ImportID)

	require.Len(t, repo.methods, 2)
	first, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Screen Print", first.Name)
	assert.InDelta(t, 0.20, first.PerColourCost, 1e-9)
	assert.InDelta(t, 25.0, first.SetupFee, 1e-9)

	second, err := repo.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Zero(t, second.PerColourCost)
	assert.InDelta(t, 1.80, second.PerUnitCost, 1e-9)
}

func TestImportCSVMissingNameColumn(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.ImportCSV(context.Background(), strings.NewReader("per_unit_cost\n1.0\n"))
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
