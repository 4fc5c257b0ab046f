package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncAdminCheck is a no-op.
func (n *NoopRecorder) IncAdminCheck(outcome string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(outcome string) {}

// IncQuotaDecision is a no-op.
func (n *NoopRecorder) IncQuotaDecision(allowed bool) {}

// ObserveRequestDuration is a no-op.
func (n *NoopRecorder) ObserveRequestDuration(route string, duration time.Duration) {}
