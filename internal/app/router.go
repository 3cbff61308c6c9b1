package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/printberry/printberry/internal/catalog/customers"
	"github.com/printberry/printberry/internal/catalog/printmethods"
	"github.com/printberry/printberry/internal/catalog/products"
	"github.com/printberry/printberry/internal/quotes"
	"github.com/printberry/printberry/internal/report"
	"github.com/printberry/printberry/internal/settings"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	SettingsHandler     *settings.Handler
	CustomersHandler    *customers.Handler
	ProductsHandler     *products.Handler
	PrintMethodsHandler *printmethods.Handler
	QuotesHandler       *quotes.Handler
	ReportHandler       *report.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		r.Route("/settings", params.SettingsHandler.MountRoutes)
		r.Route("/customers", params.CustomersHandler.MountRoutes)
		r.Route("/products", params.ProductsHandler.MountRoutes)
		r.Route("/print-methods", params.PrintMethodsHandler.MountRoutes)
		r.Route("/quotes", params.QuotesHandler.MountRoutes)
		r.Route("/pdf", params.ReportHandler.MountRoutes)
	})

	return r
}
