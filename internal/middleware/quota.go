package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rolegate/rolegate/internal/auth"
	"github.com/rolegate/rolegate/internal/metrics"
	"github.com/rolegate/rolegate/internal/quota"
)

// QuotaConfig holds configuration for the quota middleware.
type QuotaConfig struct {
	Logger  *slog.Logger
	Quota   quota.Quota
	Metrics metrics.Recorder
	Enabled bool
}

// Quota returns middleware that checks request quota before the handler and
// records usage after it. Session users are keyed by user ID, anonymous
// callers by client IP. Must be applied after Session.
func Quota(cfg QuotaConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			subject := quotaSubject(r)

			decision, err := cfg.Quota.Check(ctx, subject, 1)
			if err != nil {
				cfg.Logger.Error("quota check failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(ctx)),
				)
				// Fail open - allow request
				next.ServeHTTP(w, r)
				return
			}

			cfg.Metrics.IncQuotaDecision(decision.Allowed)

			if decision.Remaining != quota.Unbounded {
				w.Header().Set("X-Quota-Remaining", strconv.FormatInt(decision.Remaining, 10))
			}

			if !decision.Allowed {
				cfg.Logger.Warn("quota exceeded",
					slog.String("subject", subject),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(ctx)),
				)
				if !decision.ResetAt.IsZero() {
					w.Header().Set("X-Quota-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
				}
				writeError(w, http.StatusTooManyRequests, "QUOTA_EXCEEDED", "Request quota exceeded")
				return
			}

			next.ServeHTTP(w, r)

			if err := cfg.Quota.Record(ctx, subject, 1); err != nil {
				cfg.Logger.Error("quota record failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(ctx)),
				)
			}
		})
	}
}

func quotaSubject(r *http.Request) string {
	if userID := auth.UserIDFromContext(r.Context()); userID != "" {
		return "user:" + userID
	}
	return "ip:" + getClientIP(r)
}
