package wizard

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts wizard transitions and submissions. A nil *Metrics records nothing.
type Metrics struct {
	transitions *prometheus.CounterVec
	submissions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewMetrics builds the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "haven",
			Subsystem: "wizard",
			Name:      "transitions_total",
			Help:      "Step navigation attempts by wizard, direction and result.",
		}, []string{"wizard", "direction", "result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "haven",
			Subsystem: "wizard",
			Name:      "submissions_total",
			Help:      "Submit attempts by wizard and result.",
		}, []string{"wizard", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "haven",
			Subsystem: "wizard",
			Name:      "submit_duration_seconds",
			Help:      "Time spent in the persistence collaborator.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"wizard"}),
	}
	for _, c := range []prometheus.Collector{m.transitions, m.submissions, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register wizard metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) transition(wizard, direction string, ok bool) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(wizard, direction, outcome(ok)).Inc()
}

func (m *Metrics) submitted(wizard string, ok bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	m.submissions.WithLabelValues(wizard, result).Inc()
	if elapsed > 0 {
		m.latency.WithLabelValues(wizard).Observe(elapsed.Seconds())
	}
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "blocked"
}
