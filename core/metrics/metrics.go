package metrics

import (
	"time"

	"github.com/kilianp07/hmcmod/core/factory"
	"github.com/kilianp07/hmcmod/core/module"
	"github.com/kilianp07/hmcmod/core/reader"
)

// Recorder receives assembly measurements.
type Recorder interface {
	// RecordCreate counts a registry lookup and construction.
	RecordCreate(registry, id string, err error)
	// RecordMaterialize observes how long a product took to build.
	RecordMaterialize(module string, d time.Duration, err error)
	// RecordAction stores the last evaluated value of an action.
	RecordAction(module string, s float64)
	// Flush persists buffered measurements.
	Flush() error
}

// NopRecorder discards all measurements.
type NopRecorder struct{}

func (NopRecorder) RecordCreate(string, string, error)             {}
func (NopRecorder) RecordMaterialize(string, time.Duration, error) {}
func (NopRecorder) RecordAction(string, float64)                   {}
func (NopRecorder) Flush() error                                   { return nil }

// Recorders is the recorder registry for reader type R.
func Recorders[R reader.Reader]() *factory.Registry[Recorder, R] {
	return factory.Instance[Recorder, R]()
}

// NewNopModule is the constructor registered as "nop".
func NewNopModule[R reader.Reader](r R) (module.Module[Recorder], error) {
	m, err := module.New("nop", r, func(module.NoParameters) (Recorder, error) {
		return NopRecorder{}, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Outcome labels an error as "ok" or "error".
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
