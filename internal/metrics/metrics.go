// Package metrics instruments RV evaluation with Prometheus collectors.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nashmit/TwoBody-1/internal/kepler"
)

// Recorder owns a private registry so several recorders can coexist.
type Recorder struct {
	registry    *prometheus.Registry
	evaluations prometheus.Counter
	samples     prometheus.Counter
	unconverged prometheus.Counter
	iterations  prometheus.Histogram
	duration    prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "twobody_rv_evaluations_total",
			Help: "Total number of RV curve evaluations.",
		}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "twobody_rv_samples_total",
			Help: "Total number of epochs evaluated.",
		}),
		unconverged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "twobody_kepler_unconverged_total",
			Help: "Epochs whose Kepler solve hit the iteration cap.",
		}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "twobody_kepler_iterations",
			Help:    "Newton passes needed per evaluation.",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20, 50, 100},
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "twobody_rv_evaluation_seconds",
			Help:    "Wall time per RV curve evaluation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	r.registry.MustRegister(r.evaluations, r.samples, r.unconverged, r.iterations, r.duration)
	return r
}

// ObserveSolve records one evaluation of n epochs.
func (r *Recorder) ObserveSolve(n int, stats kepler.Stats, elapsed time.Duration) {
	r.evaluations.Inc()
	r.samples.Add(float64(n))
	r.unconverged.Add(float64(stats.Unconverged))
	r.iterations.Observe(float64(stats.Iterations))
	r.duration.Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, e.g. for promhttp.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Snapshot flattens the registry into name → value. Histograms contribute
// _count and _sum entries.
func (r *Recorder) Snapshot() (map[string]float64, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				out[mf.GetName()+"_count"] = float64(m.GetHistogram().GetSampleCount())
				out[mf.GetName()+"_sum"] = m.GetHistogram().GetSampleSum()
			case m.GetGauge() != nil:
				out[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}

// WriteText prints the snapshot sorted by name.
func (r *Recorder) WriteText(w io.Writer) error {
	snap, err := r.Snapshot()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "  %s: %g\n", name, snap[name]); err != nil {
			return err
		}
	}
	return nil
}
