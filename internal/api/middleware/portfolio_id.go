// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/validation"
)

// PortfolioIDParam is the route parameter holding a portfolio record id.
const PortfolioIDParam = "uuid"

// ValidatePortfolioID rejects requests whose {uuid} route parameter is not a portfolio record id.
// It only checks the format; a well-formed id of an unknown record still reaches the handler,
// which answers 404.
//
//	r.Route("/{uuid}", func(r chi.Router) {
//	    r.Use(middleware.ValidatePortfolioID)
//	    r.Post("/asset", handler.AppendAsset)
//	})
func ValidatePortfolioID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		portfolioID := chi.URLParam(r, PortfolioIDParam)

		if portfolioID == "" {
			response.RespondError(w, http.StatusBadRequest, "portfolio ID is required", "")
			return
		}

		if err := validation.ValidatePortfolioID(portfolioID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid portfolio ID", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
