package metrics

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Logins                 map[string]uint64
	Signups                map[string]uint64
	Logouts                uint64
	SessionsInvalidated    uint64
	GuardDecisions         map[string]uint64
	BackendCalls           map[string]uint64 // keyed by status class: 2xx, 4xx, 5xx, network
	BackendDurationCount   uint64
	BackendDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory. It backs /metrics and tests.
type InMemoryRecorder struct {
	mu             sync.Mutex
	logins         map[string]uint64
	signups        map[string]uint64
	guardDecisions map[string]uint64
	backendCalls   map[string]uint64

	logouts                uint64
	sessionsInvalidated    uint64
	backendDurationCount   uint64
	backendDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		logins:         make(map[string]uint64),
		signups:        make(map[string]uint64),
		guardDecisions: make(map[string]uint64),
		backendCalls:   make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Logins:                 maps.Clone(m.logins),
		Signups:                maps.Clone(m.signups),
		Logouts:                atomic.LoadUint64(&m.logouts),
		SessionsInvalidated:    atomic.LoadUint64(&m.sessionsInvalidated),
		GuardDecisions:         maps.Clone(m.guardDecisions),
		BackendCalls:           maps.Clone(m.backendCalls),
		BackendDurationCount:   atomic.LoadUint64(&m.backendDurationCount),
		BackendDurationTotalNs: atomic.LoadInt64(&m.backendDurationTotalNs),
	}
}

// IncLogin increments the login counter for result.
func (m *InMemoryRecorder) IncLogin(result string) {
	m.inc(m.logins, result)
}

// IncSignup increments the signup counter for result.
func (m *InMemoryRecorder) IncSignup(result string) {
	m.inc(m.signups, result)
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() {
	atomic.AddUint64(&m.logouts, 1)
}

// IncSessionInvalidated counts sessions dropped after a backend 401.
func (m *InMemoryRecorder) IncSessionInvalidated() {
	atomic.AddUint64(&m.sessionsInvalidated, 1)
}

// IncGuardDecision increments the counter for a route guard decision.
func (m *InMemoryRecorder) IncGuardDecision(decision string) {
	m.inc(m.guardDecisions, decision)
}

// ObserveBackendCall records one backend API call.
func (m *InMemoryRecorder) ObserveBackendCall(status int, duration time.Duration) {
	m.inc(m.backendCalls, StatusClass(status))
	atomic.AddUint64(&m.backendDurationCount, 1)
	atomic.AddInt64(&m.backendDurationTotalNs, duration.Nanoseconds())
}

func (m *InMemoryRecorder) inc(counters map[string]uint64, key string) {
	m.mu.Lock()
	counters[key]++
	m.mu.Unlock()
}

// StatusClass buckets an HTTP status; 0 means the call failed before a response.
func StatusClass(status int) string {
	switch {
	case status == 0:
		return "network"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
