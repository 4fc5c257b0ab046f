package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	AdminChecks          map[string]uint64
	Logins               map[string]uint64
	QuotaAllowed         uint64
	QuotaDenied          uint64
	RequestCount         uint64
	RequestDurationTotal time.Duration
}

// InMemoryRecorder stores metrics in memory for tests and the stats endpoint.
type InMemoryRecorder struct {
	mu          sync.Mutex
	adminChecks map[string]uint64
	logins      map[string]uint64

	quotaAllowed    uint64
	quotaDenied     uint64
	requestCount    uint64
	requestDuration int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		adminChecks: make(map[string]uint64),
		logins:      make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	adminChecks := make(map[string]uint64, len(m.adminChecks))
	for k, v := range m.adminChecks {
		adminChecks[k] = v
	}
	logins := make(map[string]uint64, len(m.logins))
	for k, v := range m.logins {
		logins[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		AdminChecks:          adminChecks,
		Logins:               logins,
		QuotaAllowed:         atomic.LoadUint64(&m.quotaAllowed),
		QuotaDenied:          atomic.LoadUint64(&m.quotaDenied),
		RequestCount:         atomic.LoadUint64(&m.requestCount),
		RequestDurationTotal: time.Duration(atomic.LoadInt64(&m.requestDuration)),
	}
}

// IncAdminCheck counts an admin check by outcome.
func (m *InMemoryRecorder) IncAdminCheck(outcome string) {
	m.mu.Lock()
	m.adminChecks[outcome]++
	m.mu.Unlock()
}

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	m.mu.Lock()
	m.logins[outcome]++
	m.mu.Unlock()
}

// IncQuotaDecision counts a quota decision.
func (m *InMemoryRecorder) IncQuotaDecision(allowed bool) {
	if allowed {
		atomic.AddUint64(&m.quotaAllowed, 1)
		return
	}
	atomic.AddUint64(&m.quotaDenied, 1)
}

// ObserveRequestDuration records a request duration.
func (m *InMemoryRecorder) ObserveRequestDuration(route string, duration time.Duration) {
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddInt64(&m.requestDuration, duration.Nanoseconds())
}
