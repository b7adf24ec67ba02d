package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(result string) {}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup(result string) {}

// IncLogout is a no-op.
func (n *NoopRecorder) IncLogout() {}

// IncSessionInvalidated is a no-op.
func (n *NoopRecorder) IncSessionInvalidated() {}

// IncGuardDecision is a no-op.
func (n *NoopRecorder) IncGuardDecision(decision string) {}

// ObserveBackendCall is a no-op.
func (n *NoopRecorder) ObserveBackendCall(status int, duration time.Duration) {}
