package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	pkgAuth "github.com/angelmondragon/gigboard-backend/pkg/auth"
)

const corsMaxAgeSeconds = 300

// CORS applies the browser origin policy. Preflights are answered here and
// never reach auth.
func CORS(origins []string) func(http.Handler) http.Handler {
	policy := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
			IdempotencyKeyHeader, requestIDHeader, pkgAuth.DevUserHeader,
		},
		ExposedHeaders:   []string{requestIDHeader, IdempotentReplayHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeSeconds,
	}
	return cors.New(policy).Handler
}
