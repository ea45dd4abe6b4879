package modules

import (
	"github.com/kilianp07/hmcmod/core/factory"
	"github.com/kilianp07/hmcmod/core/module"
	"github.com/kilianp07/hmcmod/core/reader"
	"github.com/kilianp07/hmcmod/qcd/action"
)

// gaugeModule returns a constructor for an action that needs only its
// parameters.
func gaugeModule[Par any, R reader.Reader](name string, build func(Par) *action.Gauge) factory.Constructor[action.Action, R] {
	return func(r R) (module.Module[action.Action], error) {
		m, err := module.New(name, r, func(p Par) (action.Action, error) {
			return build(p), nil
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

func wilson(p BetaGaugeActionParameters) *action.Gauge   { return action.NewWilson(p.Beta) }
func symanzik(p BetaGaugeActionParameters) *action.Gauge { return action.NewSymanzik(p.Beta) }
func iwasaki(p BetaGaugeActionParameters) *action.Gauge  { return action.NewIwasaki(p.Beta) }
func dbw2(p BetaGaugeActionParameters) *action.Gauge     { return action.NewDBW2(p.Beta) }
func rbc(p RBCGaugeActionParameters) *action.Gauge       { return action.NewRBC(p.Beta, p.C1) }

func plaqPlusRectangle(p PlaqPlusRectangleGaugeActionParameters) *action.Gauge {
	return action.NewPlaqPlusRectangle(p.CPlaq, p.CRect)
}
