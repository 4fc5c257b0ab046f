package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rolegate/rolegate/internal/auth"
	"github.com/rolegate/rolegate/internal/handler/dto"
	"github.com/rolegate/rolegate/internal/metrics"
	"github.com/rolegate/rolegate/internal/middleware"
	"github.com/rolegate/rolegate/internal/model"
	"github.com/rolegate/rolegate/internal/repository"
)

// UserStore loads users for login.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

// SessionIssuer mints session tokens.
type SessionIssuer interface {
	Issue(userID string) (string, *auth.SessionClaims, error)
}

// SessionRevoker invalidates sessions on logout.
type SessionRevoker interface {
	RevokeSession(ctx context.Context, sessionID string, expiresAt time.Time) error
}

// AuthConfig holds the dependencies of AuthHandler.
type AuthConfig struct {
	Users      UserStore
	Sessions   SessionIssuer
	Revoker    SessionRevoker
	Metrics    metrics.Recorder
	Logger     *slog.Logger
	CookieName string
	// SecureCookie marks the session cookie Secure. Off only in development.
	SecureCookie bool
}

// AuthHandler handles login, logout and session introspection.
type AuthHandler struct {
	cfg AuthConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg AuthConfig) *AuthHandler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	return &AuthHandler{cfg: cfg}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := middleware.ValidateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := middleware.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	requestID := middleware.GetRequestID(r.Context())

	user, err := h.cfg.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Equalize timing with the wrong-password path.
			auth.VerifyAgainstDummy(req.Password)
			h.rejectCredentials(w, requestID)
			return
		}
		h.cfg.Logger.Error("login user lookup failed",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID),
		)
		h.cfg.Metrics.IncLogin(metrics.LoginError)
		writeInternalError(w, err)
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		h.cfg.Logger.Error("stored password hash unreadable",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID),
			slog.String("request_id", requestID),
		)
		h.cfg.Metrics.IncLogin(metrics.LoginError)
		writeInternalError(w, err)
		return
	}
	if !ok {
		h.rejectCredentials(w, requestID)
		return
	}

	if auth.NeedsRehash(user.PasswordHash) {
		h.rehash(ctx, user, req.Password, requestID)
	}

	token, claims, err := h.cfg.Sessions.Issue(user.ID)
	if err != nil {
		h.cfg.Logger.Error("session issue failed",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID),
			slog.String("request_id", requestID),
		)
		h.cfg.Metrics.IncLogin(metrics.LoginError)
		writeInternalError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, claims.Expiry()))

	h.cfg.Logger.Info("login succeeded",
		slog.String("user_id", user.ID),
		slog.String("session_id", claims.SessionID()),
		slog.String("request_id", requestID),
	)
	h.cfg.Metrics.IncLogin(metrics.LoginSuccess)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		User:      dto.UserFromModel(user),
		ExpiresAt: claims.Expiry(),
	})
}

func (h *AuthHandler) rejectCredentials(w http.ResponseWriter, requestID string) {
	h.cfg.Logger.Warn("login rejected",
		slog.String("reason", "invalid_credentials"),
		slog.String("request_id", requestID),
	)
	h.cfg.Metrics.IncLogin(metrics.LoginInvalidCredentials)
	writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
}

// rehash upgrades a hash made with older parameters. Failures only log.
func (h *AuthHandler) rehash(ctx context.Context, user *model.User, password, requestID string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = h.cfg.Users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		h.cfg.Logger.Warn("password rehash failed",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID),
			slog.String("request_id", requestID),
		)
	}
}

// Logout handles POST /api/auth/logout.
// The cookie is always cleared; anonymous callers also get 204.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.clearedCookie())

	user := auth.UserFromContext(r.Context())
	if user == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.cfg.Revoker.RevokeSession(ctx, user.SessionID, user.ExpiresAt); err != nil {
		h.cfg.Logger.Error("session revoke failed",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID),
			slog.String("session_id", user.SessionID),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeInternalError(w, err)
		return
	}

	h.cfg.Logger.Info("logout",
		slog.String("user_id", user.ID),
		slog.String("session_id", user.SessionID),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
// Must be routed behind RequireSession.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	writeJSON(w, http.StatusOK, dto.UserFromSession(user))
}

func (h *AuthHandler) sessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) clearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
