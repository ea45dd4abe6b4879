package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/hmcmod/config"
	"github.com/kilianp07/hmcmod/core/events"
	"github.com/kilianp07/hmcmod/core/factory"
	"github.com/kilianp07/hmcmod/core/reader"
	cfgreader "github.com/kilianp07/hmcmod/infra/reader"
	"github.com/kilianp07/hmcmod/internal/eventbus"
	"github.com/kilianp07/hmcmod/qcd/modules"
)

type recorded struct {
	creates      map[string]int
	materialized []string
	actions      map[string]float64
}

func newRecorded() *recorded {
	return &recorded{creates: map[string]int{}, actions: map[string]float64{}}
}

func (r *recorded) RecordCreate(_ string, id string, err error) {
	if err == nil {
		r.creates[id]++
	}
}
func (r *recorded) RecordMaterialize(m string, _ time.Duration, _ error) {
	r.materialized = append(r.materialized, m)
}
func (r *recorded) RecordAction(m string, s float64) { r.actions[m] = s }
func (r *recorded) Flush() error                     { return nil }

func tree() map[string]any {
	return map[string]any{
		"Grid": map[string]any{"dims": []any{4, 4}},
		"Actions": map[string]any{
			"a_gauge": map[string]any{"name": "Wilson", "beta": 5.4},
			"b_fermion": map[string]any{
				"name":     "TwoFlavours",
				"Operator": map[string]any{"name": "Laplace", "mass": 0.2},
				"Solver":   map[string]any{"name": "CG", "tolerance": 1e-10, "max_iterations": 500},
			},
		},
	}
}

func run(t *testing.T, conf map[string]any, start string) (*Report, []events.ModuleEvent, *recorded, error) {
	t.Helper()
	modules.Register()
	r, err := cfgreader.FromMap(conf)
	require.NoError(t, err)
	bus := eventbus.New[events.ModuleEvent]()
	var seen []events.ModuleEvent
	bus.Subscribe(func(e events.ModuleEvent) { seen = append(seen, e) })
	rec := newRecorded()
	rep, err := NewAssembler(nil, bus, rec).Run(context.Background(), r, config.RunConfig{Start: start, Seed: 7})
	assert.Equal(t, "", r.Path())
	return rep, seen, rec, err
}

func kinds(evs []events.ModuleEvent) []events.Kind {
	out := make([]events.Kind, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Kind)
	}
	return out
}

func TestAssemblerColdStart(t *testing.T) {
	rep, seen, rec, err := run(t, tree(), config.StartCold)
	require.NoError(t, err)

	assert.Equal(t, []int{4, 4}, rep.Dims)
	assert.InDelta(t, 1.0, rep.AveragePlaquette, 1e-12)
	require.Len(t, rep.Actions, 2)
	assert.Equal(t, "a_gauge", rep.Actions[0].Section)
	assert.Equal(t, "Wilson", rep.Actions[0].Module)
	assert.InDelta(t, 0, rep.Actions[0].S, 1e-12)
	assert.Equal(t, "TwoFlavours", rep.Actions[1].Module)
	assert.Greater(t, rep.Actions[1].S, 0.0)
	assert.InDelta(t, rep.Actions[0].S+rep.Actions[1].S, rep.Total, 1e-12)
	assert.NotEqual(t, rep.Actions[0].ID, rep.Actions[1].ID)

	assert.Equal(t, map[string]int{"Wilson": 1, "TwoFlavours": 1}, rec.creates)
	assert.Equal(t, []string{"Wilson", "TwoFlavours"}, rec.materialized)
	assert.Len(t, rec.actions, 2)

	assert.Equal(t, []events.Kind{
		events.Created, events.Created,
		events.ResourceAcquired, events.ResourceAcquired,
		events.Materialized, events.Materialized,
		events.Released, events.Released,
	}, kinds(seen))
	assert.Equal(t, "b_fermion", seen[6].Section)
}

func TestAssemblerHotStartIsSeeded(t *testing.T) {
	a, _, _, err := run(t, tree(), config.StartHot)
	require.NoError(t, err)
	b, _, _, err := run(t, tree(), config.StartHot)
	require.NoError(t, err)
	assert.Less(t, a.AveragePlaquette, 1.0)
	assert.Equal(t, a.Total, b.Total)
	assert.Greater(t, a.Actions[0].S, 0.0)
}

func TestAssemblerErrors(t *testing.T) {
	t.Run("unknown identifier releases earlier modules", func(t *testing.T) {
		conf := tree()
		conf["Actions"].(map[string]any)["c_bad"] = map[string]any{"name": "Plaquette"}
		_, seen, _, err := run(t, conf, config.StartCold)
		require.ErrorIs(t, err, factory.ErrFactoryLookup)
		assert.Contains(t, err.Error(), "c_bad")
		assert.Equal(t, []events.Kind{
			events.Created, events.Created, events.Failed, events.Released, events.Released,
		}, kinds(seen))
	})
	t.Run("missing name", func(t *testing.T) {
		conf := tree()
		conf["Actions"].(map[string]any)["a_gauge"] = map[string]any{"beta": 5.4}
		_, seen, _, err := run(t, conf, config.StartCold)
		require.ErrorIs(t, err, reader.ErrConfiguration)
		assert.Empty(t, seen)
	})
	t.Run("odd grid", func(t *testing.T) {
		conf := tree()
		conf["Grid"] = map[string]any{"dims": []any{3, 4}}
		_, _, _, err := run(t, conf, config.StartCold)
		require.ErrorIs(t, err, reader.ErrConfiguration)
	})
	t.Run("missing grid", func(t *testing.T) {
		conf := tree()
		delete(conf, "Grid")
		_, _, _, err := run(t, conf, config.StartCold)
		require.ErrorIs(t, err, reader.ErrConfiguration)
	})
	t.Run("cancelled", func(t *testing.T) {
		modules.Register()
		r, err := cfgreader.FromMap(tree())
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = NewAssembler(nil, nil, nil).Run(ctx, r, config.RunConfig{Start: config.StartCold})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, "", r.Path())
	})
}
