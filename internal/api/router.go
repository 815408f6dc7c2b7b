package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/middleware"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(systemService *service.SystemService, portfolioService *service.PortfolioService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
			r.Get("/", portfolioHandler.Portfolios)
			r.Post("/", portfolioHandler.CreatePortfolio)
			r.Get("/versions", portfolioHandler.PortfolioVersions)
			r.Post("/import", portfolioHandler.ImportPortfolio)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidatePortfolioID)
				r.Get("/", portfolioHandler.GetPortfolio)
				r.Post("/asset", portfolioHandler.AppendAsset)
				r.Post("/version", portfolioHandler.SaveNewVersion)
				r.Get("/export", portfolioHandler.ExportPortfolio)
				r.Get("/allocation", portfolioHandler.Allocation)
			})
		})

		r.Route("/balance", func(r chi.Router) {
			balanceHandler := handlers.NewBalanceHandler()
			r.Post("/fixed", balanceHandler.FixedBalance)
		})
	})

	return r
}
