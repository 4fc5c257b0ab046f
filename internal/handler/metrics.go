package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/rolegate/rolegate/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	for _, outcome := range sortedKeys(snap.AdminChecks) {
		writeMetric(w, "rolegate_admin_checks_total{outcome=%q} %d\n", outcome, snap.AdminChecks[outcome])
	}
	for _, outcome := range sortedKeys(snap.Logins) {
		writeMetric(w, "rolegate_logins_total{outcome=%q} %d\n", outcome, snap.Logins[outcome])
	}

	writeMetric(w, "rolegate_quota_decisions_total{decision=\"allowed\"} %d\n", snap.QuotaAllowed)
	writeMetric(w, "rolegate_quota_decisions_total{decision=\"denied\"} %d\n", snap.QuotaDenied)

	writeMetric(w, "rolegate_http_request_duration_seconds_count %d\n", snap.RequestCount)
	writeMetric(w, "rolegate_http_request_duration_seconds_sum %.6f\n", snap.RequestDurationTotal.Seconds())
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
