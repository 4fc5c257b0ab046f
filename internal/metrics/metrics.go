// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Admin check outcomes.
const (
	AdminCheckAdmin           = "admin"
	AdminCheckNotAdmin        = "not_admin"
	AdminCheckUnauthenticated = "unauthenticated"
	AdminCheckError           = "error"
)

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginError              = "error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	IncAdminCheck(outcome string)
	IncLogin(outcome string)
	IncQuotaDecision(allowed bool)
	ObserveRequestDuration(route string, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
