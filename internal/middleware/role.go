package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rolegate/rolegate/internal/auth"
)

// AdminAuthorizer answers whether a user holds the admin role.
type AdminAuthorizer interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RequireAdmin returns middleware that admits only admin users.
// Must be applied after Session.
func RequireAdmin(authz AdminAuthorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.UserFromContext(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			isAdmin, err := authz.IsAdmin(r.Context(), user.ID)
			if err != nil {
				logger.Error("admin authorization failed",
					slog.String("error", err.Error()),
					slog.String("user_id", user.ID),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				return
			}

			if !isAdmin {
				logger.Warn("admin access denied",
					slog.String("user_id", user.ID),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions. Required role: admin")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
