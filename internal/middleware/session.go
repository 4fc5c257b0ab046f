package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rolegate/rolegate/internal/auth"
	"github.com/rolegate/rolegate/internal/model"
	"github.com/rolegate/rolegate/internal/repository"
)

// SessionVerifier parses session tokens.
type SessionVerifier interface {
	Parse(token string) (*auth.SessionClaims, error)
}

// RevocationChecker reports logged-out sessions.
type RevocationChecker interface {
	IsSessionRevoked(ctx context.Context, sessionID string) (bool, error)
}

// UserLookup loads users by ID.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// UserCache caches users for session resolution.
type UserCache interface {
	GetSessionUser(ctx context.Context, userID string) (*model.User, error)
	SetSessionUser(ctx context.Context, user *model.User) error
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger     *slog.Logger
	CookieName string
	Verifier   SessionVerifier
	Revocation RevocationChecker
	Users      UserLookup
	// Cache is optional.
	Cache UserCache
}

// Session resolves the session user from request credentials and stores it
// in the request context. It never rejects a request: anything that does not
// resolve to a live session leaves the request anonymous.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractSessionToken(r, cfg.CookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user := resolveSession(r, cfg, token)
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveSession(r *http.Request, cfg SessionConfig, token string) *model.SessionUser {
	ctx := r.Context()
	requestID := GetRequestID(ctx)

	claims, err := cfg.Verifier.Parse(token)
	if err != nil {
		cfg.Logger.Debug("session rejected",
			slog.String("reason", "invalid_token"),
			slog.String("request_id", requestID),
		)
		return nil
	}

	revoked, err := cfg.Revocation.IsSessionRevoked(ctx, claims.SessionID())
	if err != nil {
		// Without the revocation list a logged-out token would pass.
		cfg.Logger.Error("session revocation check failed",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID),
		)
		return nil
	}
	if revoked {
		cfg.Logger.Debug("session rejected",
			slog.String("reason", "revoked"),
			slog.String("session_id", claims.SessionID()),
			slog.String("request_id", requestID),
		)
		return nil
	}

	user := lookupCachedUser(ctx, cfg, claims.UserID())
	if user == nil {
		user, err = cfg.Users.GetUserByID(ctx, claims.UserID())
		if err != nil {
			if !errors.Is(err, repository.ErrUserNotFound) {
				cfg.Logger.Error("session user lookup failed",
					slog.String("error", err.Error()),
					slog.String("user_id", claims.UserID()),
					slog.String("request_id", requestID),
				)
			}
			return nil
		}
		if cfg.Cache != nil {
			_ = cfg.Cache.SetSessionUser(ctx, user)
		}
	}

	return user.ToSessionUser(claims.SessionID(), claims.Expiry())
}

func lookupCachedUser(ctx context.Context, cfg SessionConfig, userID string) *model.User {
	if cfg.Cache == nil {
		return nil
	}
	user, err := cfg.Cache.GetSessionUser(ctx, userID)
	if err != nil {
		return nil
	}
	return user
}

// ExtractSessionToken reads the session token from the session cookie,
// falling back to an "Authorization: Bearer <token>" header.
func ExtractSessionToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	return ""
}

// RequireSession rejects anonymous requests with 401.
// Must be applied after Session.
func RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.UserFromContext(r.Context()) == nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
