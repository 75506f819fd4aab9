package rolestore

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roles_store_operations_total",
			Help: "Role store operations by result",
		},
		[]string{"op", "result"},
	)
	storeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roles_store_operation_duration_seconds",
			Help:    "Role store operation latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// observe is deferred by every Store method with a pointer to its named
// error result.
func observe(op string, start time.Time, errp *error) {
	storeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	storeOperations.WithLabelValues(op, resultLabel(*errp)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConstraintViolation), errors.Is(err, ErrAlreadyPersisted):
		return "rejected"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	default:
		return "error"
	}
}
