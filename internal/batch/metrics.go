package batch

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

// Metrics holds the Prometheus collectors of a Runner.
type Metrics struct {
	RunsTotal   *prometheus.CounterVec // labels: strategy, status
	RunDuration prometheus.Histogram
}

// NewMetrics creates the runner collectors and registers them with reg.
// A nil reg keeps the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "argo_quant_runs_total",
				Help: "Backtest runs finished by the batch runner",
			},
			[]string{"strategy", "status"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "argo_quant_run_duration_seconds",
				Help:    "Wall time of one backtest run including signal generation",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.RunsTotal, m.RunDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observe(result Result) {
	status := statusSuccess
	if result.Err != nil {
		status = statusFailed
	}

	m.RunsTotal.WithLabelValues(result.Job.Strategy.Name, status).Inc()
	m.RunDuration.Observe(result.Duration.Seconds())
}
