package handlers

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/hairizuanbinnoorazman/wise-institute/internal/uuidutil"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// CredentialKey is the context key for the admin session credential.
	CredentialKey ContextKey = "credential"

	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"

	authRequiredMessage = "Authentication required"
)

// AdminAuth rejects requests without a valid admin session cookie.
type AdminAuth struct {
	codec      session.Codec
	cookieName string
	logger     logger.Logger
	now        func() time.Time
}

// NewAdminAuth creates a new admin authentication middleware.
func NewAdminAuth(codec session.Codec, cookieName string, log logger.Logger) *AdminAuth {
	return &AdminAuth{
		codec:      codec,
		cookieName: cookieName,
		logger:     log,
		now:        time.Now,
	}
}

// Handler wraps an HTTP handler with session authentication.
func (m *AdminAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred, ok := session.FromRequest(r, m.cookieName, m.codec, m.now())
		if !ok {
			m.logger.Warn(r.Context(), "missing or invalid admin session", map[string]interface{}{
				"path": r.URL.Path,
			})
			respondError(w, http.StatusUnauthorized, authRequiredMessage)
			return
		}

		ctx := context.WithValue(r.Context(), CredentialKey, cred)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCredential extracts the admin credential from the request context.
func GetCredential(ctx context.Context) (*session.Credential, bool) {
	cred, ok := ctx.Value(CredentialKey).(*session.Credential)
	return cred, ok
}

// RequestID tags each request with an id taken from X-Request-ID or generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuidutil.New()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

// Recovery turns panics into 500 responses.
func Recovery(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(r.Context(), "panic recovered", map[string]interface{}{
						"panic":  rec,
						"stack":  string(debug.Stack()),
						"method": r.Method,
						"path":   r.URL.Path,
					})
					respondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
