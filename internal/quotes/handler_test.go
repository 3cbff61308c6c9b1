package quotes

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *mockRepository) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, newTestService(repo))
	r := chi.NewRouter()
	r.Route("/quotes", handler.MountRoutes)
	return r
}

func TestHandlerCreateQuote(t *testing.T) {
	router := newTestRouter(newMockRepository())

	body := `{
		"customer_id": 7,
		"lines": [
			{"product_id": 1, "print_method_id": 3, "colours": 2, "quantity": 100, "product_unit_cost": 1.5}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/quotes/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var quote Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.NotEmpty(t, quote.QuoteNumber)
	assert.Equal(t, QuoteStatusPending, quote.Status)
	assert.InDelta(t, 247.0, quote.Subtotal, 1e-9)
}

func TestHandlerCreateQuoteValidationProblem(t *testing.T) {
	router := newTestRouter(newMockRepository())

	body := `{"customer_id": 7, "lines": [{"quantity": 0}]}`
	req := httptest.NewRequest(http.MethodPost, "/quotes/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), "Line 1")
}

func TestHandlerGetMissingQuote(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/quotes/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerListEmpty(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/quotes/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandlerExportCSVHeaders(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/quotes/export/csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "quotes.csv")
	assert.Contains(t, rec.Body.String(), "Quote Number")
}
