package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/printberry/printberry/internal/quotes"
)

// Service renders quote PDFs and keeps an archive copy of every rendered
// document on disk.
type Service struct {
	logger     *slog.Logger
	quotes     quotes.Repository
	archiveDir string
}

func NewService(logger *slog.Logger, quotesRepo quotes.Repository, archiveDir string) *Service {
	return &Service{logger: logger, quotes: quotesRepo, archiveDir: archiveDir}
}

// QuotePDF renders the quote and returns the document bytes with a suggested
// filename. The archive copy is best-effort: a full disk must not stop the
// customer from getting their quote.
func (s *Service) QuotePDF(ctx context.Context, id int64) ([]byte, string, error) {
	doc, err := s.quotes.GetDocument(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := RenderQuotePDF(doc)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s.pdf", doc.QuoteNumber)
	if err := s.archive(filename, pdf); err != nil {
		s.logger.Warn("archive quote pdf failed", "quote_number", doc.QuoteNumber, "error", err)
	}
	return pdf, filename, nil
}

func (s *Service) archive(filename string, pdf []byte) error {
	if s.archiveDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.archiveDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.archiveDir, filename), pdf, 0o644)
}
