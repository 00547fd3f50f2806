package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/forcegraph/internal/layout"
)

// Exporter publishes per-step stats as Prometheus metrics. Each Exporter
// owns its registry.
type Exporter struct {
	registry *prometheus.Registry

	StepDuration  prometheus.Histogram
	Steps         prometheus.Counter
	KineticEnergy prometheus.Gauge
	Bodies        prometheus.Gauge
	Springs       prometheus.Gauge
	TreeNodes     prometheus.Gauge
	TreeDepth     prometheus.Gauge
	Stable        prometheus.Gauge
	Recovered     *prometheus.CounterVec
}

func NewExporter() *Exporter {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Exporter{
		registry: reg,
		StepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "forcegraph_step_duration_seconds",
			Help:    "Wall time of one layout step in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		Steps: f.NewCounter(prometheus.CounterOpts{
			Name: "forcegraph_steps_total",
			Help: "Total number of layout steps",
		}),
		KineticEnergy: f.NewGauge(prometheus.GaugeOpts{
			Name: "forcegraph_kinetic_energy",
			Help: "Total kinetic energy after the last step",
		}),
		Bodies: f.NewGauge(prometheus.GaugeOpts{
			Name: "forcegraph_bodies",
			Help: "Number of bodies in the last step",
		}),
		Springs: f.NewGauge(prometheus.GaugeOpts{
			Name: "forcegraph_springs",
			Help: "Number of springs in the last step",
		}),
		TreeNodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "forcegraph_octree_nodes",
			Help: "Octree node count in the last step",
		}),
		TreeDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "forcegraph_octree_depth",
			Help: "Deepest octree node in the last step",
		}),
		Stable: f.NewGauge(prometheus.GaugeOpts{
			Name: "forcegraph_stable",
			Help: "1 when the last step was below the stability threshold",
		}),
		Recovered: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forcegraph_recovered_total",
				Help: "Conditions recovered inside a step",
			},
			[]string{"kind"}, // kind: degenerate, merged, invalid_mass
		),
	}
}

func (e *Exporter) OnStep(_ int, s layout.Stats) {
	e.StepDuration.Observe(s.Elapsed.Seconds())
	e.Steps.Inc()
	e.KineticEnergy.Set(s.TotalKineticEnergy)
	e.Bodies.Set(float64(s.Bodies))
	e.Springs.Set(float64(s.Springs))
	e.TreeNodes.Set(float64(s.TreeNodes))
	e.TreeDepth.Set(float64(s.TreeDepth))
	if s.Stable {
		e.Stable.Set(1)
	} else {
		e.Stable.Set(0)
	}
	e.Recovered.WithLabelValues("degenerate").Add(float64(s.Degenerate))
	e.Recovered.WithLabelValues("merged").Add(float64(s.Merged))
	e.Recovered.WithLabelValues("invalid_mass").Add(float64(s.InvalidMass))
}

func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
