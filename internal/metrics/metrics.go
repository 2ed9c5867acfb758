package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"authflow/internal/auth"
)

const OutcomeSuccess = "success"

// OperationsTotal counts account flow outcomes. The outcome label is
// "success" or the lowercased error code (validation, conflict, ...).
// Use RegisterMetrics to register this with a Prometheus registry.
var OperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authflow_operations_total",
		Help: "Total number of account flow operations by outcome",
	},
	[]string{"operation", "outcome"},
)

// OperationDuration is the histogram for flow latency, bcrypt and SMTP included.
var OperationDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "authflow_operation_duration_seconds",
		Help:    "Account flow operation duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// RegisterMetrics registers the flow metrics with reg. Panics if
// registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(OperationsTotal)
	reg.MustRegister(OperationDuration)
}

// Outcome maps a flow error to its outcome label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	return strings.ToLower(auth.Code(err))
}

// Observe records one finished operation.
func Observe(operation string, err error, elapsed time.Duration) {
	OperationsTotal.WithLabelValues(operation, Outcome(err)).Inc()
	OperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
