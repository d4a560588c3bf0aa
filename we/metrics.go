package we

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "we",
			Name:      "calls_total",
			Help:      "number of dispatched calls by method and outcome",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "we",
			Name:      "call_duration_seconds",
			Help:      "time taken to load, dispatch and store a call",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	for _, collector := range []prometheus.Collector{m.calls, m.duration} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) Observe(method MethodName, err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.calls.WithLabelValues(method.String(), outcomeOf(err)).Inc()
	m.duration.WithLabelValues(method.String()).Observe(elapsed.Seconds())
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}

	var aborted *CallAbortedError
	var notFound MethodNotFoundError
	var invalid *InvalidArgumentsError

	switch {
	case IsRevisionConflict(err):
		return "conflict"
	case errors.As(err, &aborted):
		return "aborted"
	case errors.As(err, &notFound), errors.As(err, &invalid):
		return "rejected"
	default:
		return "error"
	}
}
