package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"stockmarket/internal/api/handlers"
	custommiddleware "stockmarket/internal/api/middleware"
	"stockmarket/internal/config"
	"stockmarket/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(systemService *service.SystemService, stockService *service.StockService, logger *logrus.Logger, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.NewLogger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// System namespace
	r.Route("/api/system", func(r chi.Router) {
		systemHandler := handlers.NewSystemHandler(systemService)
		r.Get("/health", systemHandler.Health)
	})

	// Versioned API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/stocks", func(r chi.Router) {
			stockHandler := handlers.NewStockHandler(stockService)
			r.Get("/", stockHandler.GetAllStocks)
			r.Get("/stock/{symbol}", stockHandler.GetStock)
			r.Post("/update/{symbol}", stockHandler.UpdateStock)
			r.Get("/gainers", stockHandler.TopGainers)
			r.Get("/losers", stockHandler.TopLosers)
			r.Get("/market-movers", stockHandler.MarketMovers)
			r.Get("/populate-stocks", stockHandler.PopulateStocks)
			r.Post("/populate-stocks", stockHandler.PopulateStocks)
		})

		r.Route("/historical", func(r chi.Router) {
			historicalHandler := handlers.NewHistoricalHandler(stockService)
			r.Get("/{symbol}", historicalHandler.GetHistorical)
		})
	})

	return r
}
