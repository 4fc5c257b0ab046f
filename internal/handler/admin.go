package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rolegate/rolegate/internal/auth"
	"github.com/rolegate/rolegate/internal/handler/dto"
	"github.com/rolegate/rolegate/internal/metrics"
	"github.com/rolegate/rolegate/internal/middleware"
)

// Authorizer answers whether a user holds the admin role.
type Authorizer interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// AdminHandler provides the admin check and admin-only endpoints.
type AdminHandler struct {
	authz       Authorizer
	metrics     metrics.Recorder
	snapshotter metrics.Snapshotter
	logger      *slog.Logger
	startedAt   time.Time
}

// NewAdminHandler creates a new AdminHandler.
// snapshotter may be nil, in which case Stats reports no counters.
func NewAdminHandler(authz Authorizer, recorder metrics.Recorder, snapshotter metrics.Snapshotter, logger *slog.Logger) *AdminHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AdminHandler{
		authz:       authz,
		metrics:     recorder,
		snapshotter: snapshotter,
		logger:      logger,
		startedAt:   time.Now(),
	}
}

// Check handles GET /api/admin/check.
// Anonymous callers get 401 {"isAdmin": false}; signed-in callers get the
// authorization result unchanged.
func (h *AdminHandler) Check(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.metrics.IncAdminCheck(metrics.AdminCheckUnauthenticated)
		writeJSON(w, http.StatusUnauthorized, dto.AdminCheckResponse{IsAdmin: false})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	isAdmin, err := h.authz.IsAdmin(ctx, user.ID)
	if err != nil {
		h.logger.Error("admin check failed",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		h.metrics.IncAdminCheck(metrics.AdminCheckError)
		writeInternalError(w, err)
		return
	}

	if isAdmin {
		h.metrics.IncAdminCheck(metrics.AdminCheckAdmin)
	} else {
		h.metrics.IncAdminCheck(metrics.AdminCheckNotAdmin)
	}

	writeJSON(w, http.StatusOK, dto.AdminCheckResponse{IsAdmin: isAdmin})
}

// Stats handles GET /api/admin/stats.
// Returns basic operational counters.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	response := dto.StatsResponse{
		Timestamp:   time.Now().UTC(),
		Service:     "rolegate",
		Uptime:      time.Since(h.startedAt).Round(time.Second).String(),
		AdminChecks: map[string]uint64{},
		Logins:      map[string]uint64{},
	}

	if h.snapshotter != nil {
		snap := h.snapshotter.Snapshot()
		response.AdminChecks = snap.AdminChecks
		response.Logins = snap.Logins
		response.QuotaAllowed = snap.QuotaAllowed
		response.QuotaDenied = snap.QuotaDenied
		response.Requests = snap.RequestCount
	}

	writeJSON(w, http.StatusOK, response)
}
