package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// AdminMiddleware guards the administrative endpoints with a static bearer
// token. Token comparison is constant-time.
type AdminMiddleware struct {
	token  string
	logger *slog.Logger
}

// NewAdminMiddleware creates the middleware. An empty token disables the
// check entirely; the constructor logs a warning so an unprotected admin
// surface never goes unnoticed.
func NewAdminMiddleware(token string, logger *slog.Logger) *AdminMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	if token == "" {
		logger.Warn("admin token not set, administrative endpoints are unprotected")
	}
	return &AdminMiddleware{token: token, logger: logger}
}

// Require wraps a handler with the admin token check
func (m *AdminMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		presented := extractBearerToken(r)
		if presented == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(m.token)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid authorization token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractBearerToken pulls the token from the Authorization header.
// Returns empty string if the header is missing or malformed.
func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
