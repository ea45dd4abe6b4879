package metrics

import (
	"sync"

	"github.com/kilianp07/hmcmod/core/factory"
	coremetrics "github.com/kilianp07/hmcmod/core/metrics"
	"github.com/kilianp07/hmcmod/core/module"
	"github.com/kilianp07/hmcmod/core/reader"
	cfgreader "github.com/kilianp07/hmcmod/infra/reader"
)

// PromParameters configures the "prometheus" recorder.
type PromParameters struct {
	File      string `json:"file,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

func newPromModule[R reader.Reader](r R) (module.Module[coremetrics.Recorder], error) {
	m, err := module.New("prometheus", r, func(p PromParameters) (coremetrics.Recorder, error) {
		rec, err := NewPromRecorder(nil, p.Namespace, p.File)
		if err != nil {
			return nil, err
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

var registerOnce sync.Once

// Register installs the "nop" and "prometheus" recorders for the koanf
// reader. It is safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		recs := coremetrics.Recorders[*cfgreader.Koanf]()
		factory.NewRegistrar(recs, "nop", coremetrics.NewNopModule[*cfgreader.Koanf])
		factory.NewRegistrar(recs, "prometheus", newPromModule[*cfgreader.Koanf])
	})
}
