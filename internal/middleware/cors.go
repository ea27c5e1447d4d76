package middleware

import (
	"net/http"

	"rental-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS builds the CORS layer from the server.cors_* settings. The API
// authenticates with bearer tokens, never cookies, so credentials stay off
// and a "*" origin is safe. Content-Disposition is exposed so the frontend
// can name downloaded receipts and reports.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CorsAllowedOrigins,
		AllowedMethods: cfg.Server.CorsAllowedMethods,
		AllowedHeaders: cfg.Server.CorsAllowedHeaders,
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
		MaxAge:         600,
	}).Handler
}
