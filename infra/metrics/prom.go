package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/hmcmod/core/metrics"
)

// PromRecorder records assembly measurements in Prometheus collectors.
type PromRecorder struct {
	created     *prometheus.CounterVec
	materialize *prometheus.HistogramVec
	action      *prometheus.GaugeVec
	gatherer    prometheus.Gatherer
	file        string
}

var _ coremetrics.Recorder = (*PromRecorder)(nil)

// NewPromRecorder registers the collectors on reg. A nil reg uses a fresh
// registry. When file is set, Flush writes the text exposition format there.
func NewPromRecorder(reg *prometheus.Registry, namespace, file string) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	created, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "modules_created_total",
		Help:      "Modules created through a registry, by outcome",
	}, []string{"registry", "id", "outcome"}))
	if err != nil {
		return nil, err
	}
	materialize, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "module_materialize_seconds",
		Help:      "Time spent building module products",
		Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
	}, []string{"module", "outcome"}))
	if err != nil {
		return nil, err
	}
	action, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "action_value",
		Help:      "Last evaluated value of each action term",
	}, []string{"module"}))
	if err != nil {
		return nil, err
	}
	return &PromRecorder{created: created, materialize: materialize, action: action, gatherer: reg, file: file}, nil
}

// register adds c to reg, reusing an identical collector already there.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

func (p *PromRecorder) RecordCreate(registry, id string, err error) {
	p.created.WithLabelValues(registry, id, coremetrics.Outcome(err)).Inc()
}

func (p *PromRecorder) RecordMaterialize(module string, d time.Duration, err error) {
	p.materialize.WithLabelValues(module, coremetrics.Outcome(err)).Observe(d.Seconds())
}

func (p *PromRecorder) RecordAction(module string, s float64) {
	p.action.WithLabelValues(module).Set(s)
}

// Flush writes the textfile when one is configured.
func (p *PromRecorder) Flush() error {
	if p.file == "" {
		return nil
	}
	return prometheus.WriteToTextfile(p.file, p.gatherer)
}
