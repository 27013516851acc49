package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the configured frontend origins. Preflight requests are
// answered here and never reach auth.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
