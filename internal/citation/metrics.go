package citation

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("citer/internal/citation")

var (
	citationsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citer",
		Name:      "citations_generated_total",
		Help:      "Citations rendered, by style.",
	}, []string{"style"})
	fetchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "citer",
		Name:      "fetch_failures_total",
		Help:      "Page fetches that fell back to the error title.",
	})
	logAppends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citer",
		Name:      "output_log_appends_total",
		Help:      "Output log append attempts, by result.",
	}, []string{"result"})
	generateDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "citer",
		Name:      "generate_duration_seconds",
		Help:      "Wall time of Generate including fetch and log append.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"style"})

	registerOnce sync.Once
)

// RegisterMetrics adds the package collectors to reg. Repeated calls are
// no-ops.
func RegisterMetrics(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(citationsGenerated, fetchFailures, logAppends, generateDuration)
	})
}
