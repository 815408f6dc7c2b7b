package middleware

import (
	"github.com/go-chi/cors"
)

// NewCORS allows the portfolio UI origins to call the API.
// Only GET and POST routes exist. Content-Disposition is exposed so a browser can read the
// {name}_v{version}.json file name of an exported portfolio.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
