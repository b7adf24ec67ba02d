// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Login outcomes.
const (
	LoginSuccess     = "success"
	LoginFailure     = "failure"
	LoginRateLimited = "rate_limited"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Session metrics
	IncLogin(result string)
	IncSignup(result string)
	IncLogout()
	IncSessionInvalidated()

	// Route guard metrics; decision is the policy decision name.
	IncGuardDecision(decision string)

	// Backend API metrics; status is 0 when the request never got a response.
	ObserveBackendCall(status int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
