package handler

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/wellpath/portal/internal/metrics"
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

	writeLabeled(w, "wellpath_logins_total", "result", snap.Logins)
	writeLabeled(w, "wellpath_signups_total", "result", snap.Signups)
	writeMetric(w, "wellpath_logouts_total %d\n", snap.Logouts)
	writeMetric(w, "wellpath_sessions_invalidated_total %d\n", snap.SessionsInvalidated)

	writeLabeled(w, "wellpath_guard_decisions_total", "decision", snap.GuardDecisions)

	writeLabeled(w, "wellpath_backend_requests_total", "status", snap.BackendCalls)
	writeMetric(w, "wellpath_backend_request_duration_seconds_count %d\n", snap.BackendDurationCount)
	writeMetric(w, "wellpath_backend_request_duration_seconds_sum %.6f\n", float64(snap.BackendDurationTotalNs)/1e9)
}

// writeLabeled writes one line per label value, in sorted order.
func writeLabeled(w http.ResponseWriter, name, label string, counters map[string]uint64) {
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		writeMetric(w, "%s{%s=%q} %d\n", name, label, k, counters[k])
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
