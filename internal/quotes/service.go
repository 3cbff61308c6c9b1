package quotes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/printberry/printberry/internal/catalog/customers"
	"github.com/printberry/printberry/internal/catalog/printmethods"
	"github.com/printberry/printberry/internal/platform/httpx"
	"github.com/printberry/printberry/internal/settings"
)

type Service struct {
	repo         Repository
	settings     settings.Repository
	customers    customers.Repository
	printMethods printmethods.Repository
	validate     *validator.Validate
}

func NewService(repo Repository, settingsRepo settings.Repository, customersRepo customers.Repository, printMethodsRepo printmethods.Repository) *Service {
	return &Service{
		repo:         repo,
		settings:     settingsRepo,
		customers:    customersRepo,
		printMethods: printMethodsRepo,
		validate:     validator.New(),
	}
}

// Create validates, prices and persists a quote atomically. The quote number
// is allocated inside the same transaction as the insert, so concurrent
// creations cannot collide and a failed creation never burns a number.
func (s *Service) Create(ctx context.Context, req CreateQuoteRequest) (Quote, error) {
	if err := s.validate.Struct(req); err != nil {
		return Quote{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
	}
	if err := validateLines(req.Lines); err != nil {
		return Quote{}, err
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return Quote{}, fmt.Errorf("load settings: %w", err)
	}
	if _, err := s.customers.Get(ctx, req.CustomerID); err != nil {
		return Quote{}, fmt.Errorf("%w: customer not found", httpx.ErrValidation)
	}

	markup := cfg.DefaultMarkupPercent
	if req.MarkupPercent != nil {
		markup = *req.MarkupPercent
	}
	vat := cfg.VatPercent
	if req.VatPercent != nil {
		vat = *req.VatPercent
	}
	hideSupplier := cfg.DefaultHideSupplier
	if req.HideSupplierInPDF != nil {
		hideSupplier = *req.HideSupplierInPDF
	}

	lines, prices, err := s.priceLines(ctx, req.Lines, markup)
	if err != nil {
		return Quote{}, err
	}
	totals := SumTotals(prices, vat)

	var id int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		now := time.Now()
		number, err := repo.GenerateNumber(ctx, cfg.QuotePrefix, now.Year())
		if err != nil {
			return err
		}
		id, err = repo.Create(ctx, Quote{
			QuoteNumber:       number,
			CustomerID:        req.CustomerID,
			Date:              now,
			Status:            QuoteStatusPending,
			Subtotal:          totals.Subtotal,
			Vat:               totals.Vat,
			Total:             totals.Total,
			Notes:             req.Notes,
			Terms:             req.Terms,
			MarkupPercent:     markup,
			VatPercent:        vat,
			HideSupplierInPDF: hideSupplier,
		})
		if err != nil {
			return err
		}
		for _, line := range lines {
			line.QuoteID = id
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert quote line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Quote{}, err
	}
	return s.repo.Get(ctx, id)
}

// priceLines resolves print method rates and runs the pricing engine on each
// line, returning storable lines and the raw prices for aggregation.
func (s *Service) priceLines(ctx context.Context, reqs []CreateQuoteLineRequest, markup float64) ([]QuoteLine, []LinePrice, error) {
	rateCache := map[int64]PrintRates{}
	lines := make([]QuoteLine, 0, len(reqs))
	prices := make([]LinePrice, 0, len(reqs))

	for _, lr := range reqs {
		mode := NormalizePricingMode(lr.PricingMode)

		var rates PrintRates
		if mode == PricingModeAuto && lr.PrintMethodID != nil {
			cached, ok := rateCache[*lr.PrintMethodID]
			if !ok {
				pm, err := s.printMethods.Get(ctx, *lr.PrintMethodID)
				if err != nil {
					return nil, nil, fmt.Errorf("%w: print method %d not found", httpx.ErrValidation, *lr.PrintMethodID)
				}
				cached = PrintRates{PerColour: pm.PerColourCost, PerUnit: pm.PerUnitCost}
				rateCache[*lr.PrintMethodID] = cached
			}
			rates = cached
		}

		price := PriceLine(LineInput{
			Mode:            mode,
			Quantity:        lr.Quantity,
			Colours:         lr.Colours,
			ProductUnitCost: derefFloat(lr.ProductUnitCost),
			Rates:           rates,
			ManualUnitPrice: derefFloat(lr.ManualUnitPrice),
			ManualTotal:     derefFloat(lr.ManualTotal),
			PackSize:        derefInt(lr.PackSize),
			DeliveryPerPack: derefFloat(lr.DeliveryPerPack),
			DeliveryFlat:    derefFloat(lr.DeliveryFlat),
			MarkupPercent:   markup,
		})

		lines = append(lines, QuoteLine{
			ProductID:             lr.ProductID,
			SupplierID:            lr.SupplierID,
			PrintMethodID:         lr.PrintMethodID,
			Colours:               lr.Colours,
			Quantity:              lr.Quantity,
			ProductUnitCost:       derefFloat(lr.ProductUnitCost),
			PrintCostTotal:        price.PrintCostTotal,
			LineTotalCost:         price.LineTotalCost,
			SellingPrice:          price.SellingPrice,
			PricingMode:           mode,
			ManualUnitPrice:       lr.ManualUnitPrice,
			ManualTotal:           lr.ManualTotal,
			PackSize:              lr.PackSize,
			DeliveryPerPack:       lr.DeliveryPerPack,
			DeliveryFlat:          lr.DeliveryFlat,
			LineDescription:       lr.LineDescription,
			ManualProductName:     lr.ManualProductName,
			ManualPrintMethodName: lr.ManualPrintMethodName,
		})
		prices = append(prices, price)
	}
	return lines, prices, nil
}

// validateLines checks every line and reports all failures at once, each
// prefixed with its 1-based position. Any failure rejects the whole quote.
func validateLines(reqs []CreateQuoteLineRequest) error {
	var problems []string
	for i, lr := range reqs {
		n := i + 1
		if lr.ProductID == nil && derefString(lr.ManualProductName) == "" {
			problems = append(problems, fmt.Sprintf("Line %d: a product or manual product name is required", n))
		}
		if lr.PrintMethodID == nil && derefString(lr.ManualPrintMethodName) == "" {
			problems = append(problems, fmt.Sprintf("Line %d: a print method or manual print method name is required", n))
		}
		if lr.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("Line %d: quantity must be greater than 0", n))
		}
		switch NormalizePricingMode(lr.PricingMode) {
		case PricingModeManualTotal:
			if lr.ManualTotal == nil {
				problems = append(problems, fmt.Sprintf("Line %d: manual total must be provided", n))
			}
		case PricingModeManualUnit:
			if lr.ManualUnitPrice == nil {
				problems = append(problems, fmt.Sprintf("Line %d: manual unit price must be provided", n))
			}
		default:
			if lr.ProductUnitCost == nil {
				problems = append(problems, fmt.Sprintf("Line %d: unit cost must be provided", n))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", httpx.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (Quote, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetDocument(ctx context.Context, id int64) (Document, error) {
	return s.repo.GetDocument(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListQuotesRequest) ([]QuoteSummary, error) {
	if req.Status != "" && !ValidStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, req.Status)
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateQuoteRequest) (Quote, error) {
	if req.Status != nil && !ValidStatus(*req.Status) {
		return Quote{}, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, *req.Status)
	}
	if err := s.repo.Update(ctx, id, req); err != nil {
		return Quote{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Clone duplicates a quote under a fresh number. The copy keeps the source's
// priced figures and frozen rates untouched; only the number, date and status
// are new. Nothing is repriced, even if catalog costs or settings have moved
// since the original was written.
func (s *Service) Clone(ctx context.Context, id int64) (Quote, error) {
	src, err := s.repo.Get(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return Quote{}, fmt.Errorf("load settings: %w", err)
	}

	var newID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		now := time.Now()
		number, err := repo.GenerateNumber(ctx, cfg.QuotePrefix, now.Year())
		if err != nil {
			return err
		}
		clone := src
		clone.QuoteNumber = number
		clone.Date = now
		clone.Status = QuoteStatusPending
		newID, err = repo.Create(ctx, clone)
		if err != nil {
			return err
		}
		for _, line := range src.Lines {
			line.ID = 0
			line.QuoteID = newID
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("clone quote line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Quote{}, err
	}
	return s.repo.Get(ctx, newID)
}

func (s *Service) Export(ctx context.Context) ([]ExportRow, error) {
	return s.repo.ListForExport(ctx)
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
