// Package metrics provides optional Prometheus instrumentation for
// the CEGAR driver. It is pure observability: nothing in the solver's
// correctness path depends on it, and the default Provider is a no-op.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Provider is the instrumentation surface the CEGAR driver writes to.
type Provider interface {
	// IterationCompleted is called once per CEGAR loop iteration.
	IterationCompleted()
	// ExpansionVariableCount reports the current total number of
	// expansion variables minted across all existentials.
	ExpansionVariableCount(n int)
}

type noop struct{}

// NoOp returns a Provider that discards every observation.
func NoOp() Provider { return noop{} }

func (noop) IterationCompleted()       {}
func (noop) ExpansionVariableCount(int) {}

// Prometheus is a Provider backed by a prometheus.Registerer, mirroring
// the gauge/counter pair a controller-manager's metrics package would
// expose for a reconcile loop.
type Prometheus struct {
	iterations prometheus.Counter
	expansionVars prometheus.Gauge
}

// NewPrometheus registers and returns a Prometheus-backed Provider.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dqbfsolve",
			Subsystem: "cegar",
			Name:      "iterations_total",
			Help:      "Total number of CEGAR driver iterations.",
		}),
		expansionVars: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dqbfsolve",
			Subsystem: "cegar",
			Name:      "expansion_variables",
			Help:      "Current number of expansion variables minted.",
		}),
	}
	reg.MustRegister(p.iterations, p.expansionVars)
	return p
}

func (p *Prometheus) IterationCompleted() {
	p.iterations.Inc()
}

func (p *Prometheus) ExpansionVariableCount(n int) {
	p.expansionVars.Set(float64(n))
}
