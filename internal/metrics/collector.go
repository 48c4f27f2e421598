// Package metrics exports pipeline compilation metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

// Collector implements recon.Observer using Prometheus. Each collector owns
// its registry so several can coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	buildsTotal      *prometheus.CounterVec
	unitsPerBuild    prometheus.Histogram
	connectionsBuilt *prometheus.CounterVec
	sinksBuilt       *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		buildsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qsirecon_builds_total",
				Help: "Total number of pipeline builds by outcome",
			},
			[]string{"outcome"},
		),
		unitsPerBuild: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qsirecon_pipeline_units",
				Help:    "Processing units per successfully built pipeline",
				Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16},
			},
		),
		connectionsBuilt: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qsirecon_connections_total",
				Help: "Total number of connections wired, by source",
			},
			[]string{"source"},
		),
		sinksBuilt: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qsirecon_sinks_total",
				Help: "Total number of persistence sinks attached, by category",
			},
			[]string{"category"},
		),
	}
}

// ObserveBuild implements recon.Observer.
func (c *Collector) ObserveBuild(_ string, p *recon.Pipeline, err error) {
	c.buildsTotal.WithLabelValues(Outcome(err)).Inc()
	if err != nil || p == nil {
		return
	}
	c.unitsPerBuild.Observe(float64(p.Len()))
	for _, conn := range p.Connections() {
		source := "upstream"
		if conn.FromGlobal() {
			source = "global"
		}
		c.connectionsBuilt.WithLabelValues(source).Inc()
	}
	for _, s := range p.Sinks() {
		c.sinksBuilt.WithLabelValues(string(s.Category)).Inc()
	}
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// WriteTextfile writes every metric to path in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Outcome labels a build result: "ok" or the kind of error.
func Outcome(err error) string {
	var (
		notFound   *recon.SpecNotFoundError
		parse      *recon.SpecParseError
		unknown    *recon.UnknownNodeError
		param      *recon.InvalidParameterError
		duplicate  *recon.DuplicateNodeNameError
		unresolved *recon.UnresolvedNodeError
		conn       *recon.DuplicateConnectionError
		cycle      *recon.CycleError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &notFound):
		return "spec_not_found"
	case errors.As(err, &parse):
		return "spec_parse"
	case errors.As(err, &unknown):
		return "unknown_node"
	case errors.As(err, &param):
		return "invalid_parameter"
	case errors.As(err, &duplicate):
		return "duplicate_node_name"
	case errors.As(err, &unresolved):
		return "unresolved_node"
	case errors.As(err, &conn):
		return "duplicate_connection"
	case errors.As(err, &cycle):
		return "cycle"
	}
	return "error"
}
