package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/printberry/printberry/internal/app"
	"github.com/printberry/printberry/internal/catalog/customers"
	"github.com/printberry/printberry/internal/catalog/printmethods"
	"github.com/printberry/printberry/internal/catalog/products"
	"github.com/printberry/printberry/internal/platform/db"
	"github.com/printberry/printberry/internal/quotes"
	"github.com/printberry/printberry/internal/report"
	"github.com/printberry/printberry/internal/settings"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := db.Migrate(ctx, dbpool); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	settingsRepo := settings.NewRepository(dbpool)
	settingsService := settings.NewService(settingsRepo)
	settingsHandler := settings.NewHandler(logger, settingsService)

	customersRepo := customers.NewRepository(dbpool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	productsRepo := products.NewRepository(dbpool)
	productsService := products.NewService(productsRepo)
	productsHandler := products.NewHandler(logger, productsService)

	printMethodsRepo := printmethods.NewRepository(dbpool)
	printMethodsService := printmethods.NewService(printMethodsRepo)
	printMethodsHandler := printmethods.NewHandler(logger, printMethodsService)

	quotesRepo := quotes.NewRepository(dbpool)
	quotesService := quotes.NewService(quotesRepo, settingsRepo, customersRepo, printMethodsRepo)
	quotesHandler := quotes.NewHandler(logger, quotesService)

	reportService := report.NewService(logger, quotesRepo, cfg.QuotesDir)
	reportHandler := report.NewHandler(logger, reportService)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		SettingsHandler:     settingsHandler,
		CustomersHandler:    customersHandler,
		ProductsHandler:     productsHandler,
		PrintMethodsHandler: printMethodsHandler,
		QuotesHandler:       quotesHandler,
		ReportHandler:       reportHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
