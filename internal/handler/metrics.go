package handler

import (
	"fmt"
	"net/http"

	"github.com/tasklane/tasklane/internal/metrics"
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

	writeMetric(w, "tasklane_identity_cache_hits_total %d\n", snap.IdentityCacheHits)
	writeMetric(w, "tasklane_identity_cache_misses_total %d\n", snap.IdentityCacheMisses)
	writeMetric(w, "tasklane_todos_created_total %d\n", snap.TodosCreated)
	writeMetric(w, "tasklane_todos_updated_total %d\n", snap.TodosUpdated)
	writeMetric(w, "tasklane_todos_deleted_total %d\n", snap.TodosDeleted)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
