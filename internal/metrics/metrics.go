// Package metrics holds the Prometheus collectors of an equigrid process.
// Each App owns its own registry so that tests and embedded uses never share
// global state.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/equigrid/internal/solver"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	solves      *prometheus.CounterVec
	rounds      prometheus.Histogram
	parseErrors *prometheus.CounterVec
	published   *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		solves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "equigrid_solves_total",
			Help: "Solver runs, by whether every node resolved",
		}, []string{"system", "completed"}),
		rounds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "equigrid_solve_rounds",
			Help:    "Fixed-point rounds executed per solve",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, solver.MaxRounds},
		}),
		parseErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "equigrid_parse_errors_total",
			Help: "Equation blocks rejected by the parser",
		}, []string{"system"}),
		published: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "equigrid_published_reports_total",
			Help: "Reports emitted to the publisher, by outcome",
		}, []string{"result"}),
	}
}

// ObserveSolve records one solver run.
func (m *Metrics) ObserveSolve(system string, res solver.Result) {
	m.solves.WithLabelValues(system, strconv.FormatBool(res.Completed)).Inc()
	m.rounds.Observe(float64(res.Rounds))
}

// ObserveParseError records a rejected equation block.
func (m *Metrics) ObserveParseError(system string) {
	m.parseErrors.WithLabelValues(system).Inc()
}

// ObservePublish records a publish attempt.
func (m *Metrics) ObservePublish(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.published.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
