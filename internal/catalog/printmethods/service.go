package printmethods

import (
	"context"
	"encoding/csv"
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

func (s *Service) List(ctx context.Context) ([]PrintMethod, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (PrintMethod, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req UpsertPrintMethodRequest) (PrintMethod, error) {
	if err := s.validate.Struct(req); err != nil {
		return PrintMethod{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
	}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		created, err := repo.Create(ctx, PrintMethod{
			Name:          req.Name,
			PerColourCost: req.PerColourCost,
			PerUnitCost:   req.PerUnitCost,
			SetupFee:      req.SetupFee,
		})
		if err != nil {
			return fmt.Errorf("create print method: %w", err)
		}
		id = created
		return repo.ReplaceTiers(ctx, id, mapTiers(req.Tiers))
	})
	if err != nil {
		return PrintMethod{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertPrintMethodRequest) (PrintMethod, error) {
	if err := s.validate.Struct(req); err != nil {
		return PrintMethod{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, id, PrintMethod{
			Name:          req.Name,
			PerColourCost: req.PerColourCost,
			PerUnitCost:   req.PerUnitCost,
			SetupFee:      req.SetupFee,
		}); err != nil {
			return err
		}
		return repo.ReplaceTiers(ctx, id, mapTiers(req.Tiers))
	})
	if err != nil {
		return PrintMethod{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ImportCSV ingests rows of name,per_colour_cost,per_unit_cost,setup_fee in
// one transaction. Rows without a name are skipped.
func (s *Service) ImportCSV(ctx context.Context, file io.Reader) (ImportResult, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: empty or unreadable CSV", httpx.ErrValidation)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
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

			get := func(name string) string {
				i, ok := col[name]
				if !ok || i >= len(record) {
					return ""
				}
				return strings.TrimSpace(record[i])
			}

			name := get("name")
			if name == "" {
				result.Skipped++
				continue
			}

			_, err = repo.Create(ctx, PrintMethod{
				Name:          name,
				PerColourCost: parseFloat(get("per_colour_cost")),
				PerUnitCost:   parseFloat(get("per_unit_cost")),
				SetupFee:      parseFloat(get("setup_fee")),
			})
			if err != nil {
				return fmt.Errorf("import print method %q: %w", name, err)
			}
			result.Imported++
		}
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

func mapTiers(reqs []TierReq) []Tier {
	tiers := make([]Tier, 0, len(reqs))
	for _, tr := range reqs {
		tiers = append(tiers, Tier{MinQty: tr.MinQty, PerUnitCost: tr.PerUnitCost, PerColourCost: tr.PerColourCost})
	}
	return tiers
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
