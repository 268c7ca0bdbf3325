package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"evote/internal/domain"
	"evote/internal/session"
	"evote/pkg/errors"
	"evote/pkg/logger"

	"github.com/google/uuid"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// Session loads the browser session and stores it in the request context
func Session(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := manager.Load(r)
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), st)))
		})
	}
}

// RequireRoleAPI is RequireRole for JSON endpoints: it answers 401 or 403
// instead of redirecting
func RequireRoleAPI(role domain.Role, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st, _ := session.FromContext(r.Context())
			user := st.CurrentUser()

			switch {
			case st.IsLoading():
				w.Header().Set("Retry-After", "1")
				writeErrorResponse(w, r, &errors.AppError{
					Type:       errors.ErrorTypeInternal,
					Message:    "Session is not ready",
					StatusCode: http.StatusServiceUnavailable,
				}, logger)
			case user == nil:
				writeErrorResponse(w, r, errors.NewAuthenticationError("Sign in required"), logger)
			case user.Role != role:
				writeErrorResponse(w, r, errors.NewAuthorizationError("This endpoint is for "+string(role)+"s only"), logger)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequestID creates a middleware that adds a unique request ID to each request
// and logs the request once it completes
func RequestID(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			r = r.WithContext(ctx)
			w.Header().Set("X-Request-ID", requestID)

			start := time.Now()
			next.ServeHTTP(w, r)

			logger.WithFields(map[string]interface{}{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"duration":   time.Since(start).String(),
			}).Debug("Request handled")
		})
	}
}

// GetRequestID returns the request ID set by RequestID
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

// writeErrorResponse writes an error response to the client
func writeErrorResponse(w http.ResponseWriter, r *http.Request, appErr *errors.AppError, logger *logger.Logger) {
	logger.WithError(appErr).WithField("path", r.URL.Path).Info("Request rejected")

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.RequestID = GetRequestID(r.Context())
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(response)
}
