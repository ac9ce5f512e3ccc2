package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/webreviewer/webreviewer/internal/auth"
	"github.com/webreviewer/webreviewer/internal/model"
	"github.com/webreviewer/webreviewer/internal/repository"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger     *slog.Logger
	Repository *repository.Repository
	Tokens     *auth.TokenIssuer
}

// RequireAuth returns a middleware that authenticates requests with a
// Bearer access token. The account is loaded so revoked or deleted users
// are rejected even while their token is still valid, and the auth context
// is injected into the request.
func RequireAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				denyAuth(cfg.Logger, w, r, "missing_token")
				return
			}

			claims, err := cfg.Tokens.VerifyAccess(token)
			if err != nil {
				denyAuth(cfg.Logger, w, r, "invalid_token")
				return
			}

			user, err := cfg.Repository.GetUserByID(r.Context(), claims.Subject)
			if err != nil {
				denyAuth(cfg.Logger, w, r, "unknown_user")
				return
			}
			if !user.EmailVerified {
				denyAuth(cfg.Logger, w, r, "email_not_verified")
				return
			}

			authCtx := &model.AuthContext{
				UserID:   user.ID,
				Username: user.Username,
				Role:     user.Role,
			}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithAuth(r.Context(), authCtx)))
		})
	}
}

// RequireAdmin returns a middleware that rejects non-admin callers.
// Must be applied after RequireAuth.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := auth.FromContext(r.Context())
			if authCtx == nil || !authCtx.IsAdmin() {
				logger.Warn("admin access denied",
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken pulls the token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func denyAuth(logger *slog.Logger, w http.ResponseWriter, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
	writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing access token")
}

// writeJSONError writes a minimal JSON error without pulling in the
// handler package.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"` + code + `"}`))
}
