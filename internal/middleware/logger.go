package middleware

import (
	"context"
	"net/http"

	"app/internal/logger"

	"github.com/google/uuid"
)

// Injected key type to avoid context collisions
type contextKey string

const RequestIDContextKey = contextKey("request_id")

// LoggerMiddleware tags each request with an id and logs it after handling.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)

		// Call the next handler in the chain
		next.ServeHTTP(w, r.WithContext(ctx))

		logger := logger.New()
		// Log full request URI including query params
		logger.Debug().Str("request_id", requestID).Msgf("%s %s", r.Method, r.URL.RequestURI())
	})
}
