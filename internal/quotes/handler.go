package quotes

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/printberry/printberry/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListQuotesRequest{
		Search: r.URL.Query().Get("q"),
		Status: QuoteStatus(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid customer_id")
			return
		}
		req.CustomerID = id
	}
	var err error
	if req.From, err = parseDateParam(r.URL.Query().Get("from")); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid from date")
		return
	}
	if req.To, err = parseDateParam(r.URL.Query().Get("to")); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid to date")
		return
	}

	list, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list quotes failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []QuoteSummary{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

// parseDateParam accepts a plain date or a full RFC 3339 timestamp.
func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quote id")
		return
	}
	quote, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	quote, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create quote failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("quote created", "quote_number", quote.QuoteNumber, "customer_id", quote.CustomerID, "total", quote.Total)
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quote id")
		return
	}
	var req UpdateQuoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	quote, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update quote failed", "quote_id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quote id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete quote failed", "quote_id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) Clone(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quote id")
		return
	}
	quote, err := h.service.Clone(r.Context(), id)
	if err != nil {
		h.logger.Error("clone quote failed", "quote_id", id, "error", err)
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("quote cloned", "source_id", id, "quote_number", quote.QuoteNumber)
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Export(r.Context())
	if err != nil {
		h.logger.Error("export quotes csv failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="quotes.csv"`)
	if err := writeExportCSV(w, rows); err != nil {
		h.logger.Error("stream quotes csv failed", "error", err)
	}
}

func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Export(r.Context())
	if err != nil {
		h.logger.Error("export quotes xlsx failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="quotes.xlsx"`)
	if err := writeExportXLSX(w, rows); err != nil {
		h.logger.Error("stream quotes xlsx failed", "error", err)
	}
}
