package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kilianp07/hmcmod/config"
	"github.com/kilianp07/hmcmod/core/composite"
	"github.com/kilianp07/hmcmod/core/events"
	"github.com/kilianp07/hmcmod/core/factory"
	coremetrics "github.com/kilianp07/hmcmod/core/metrics"
	"github.com/kilianp07/hmcmod/core/module"
	"github.com/kilianp07/hmcmod/core/reader"
	"github.com/kilianp07/hmcmod/infra/logger"
	cfgreader "github.com/kilianp07/hmcmod/infra/reader"
	"github.com/kilianp07/hmcmod/internal/eventbus"
	"github.com/kilianp07/hmcmod/qcd/action"
	"github.com/kilianp07/hmcmod/qcd/grid"
	"github.com/kilianp07/hmcmod/qcd/modules"
)

// Sections of the module tree read by the assembler.
const (
	GridSection    = "Grid"
	ActionsSection = "Actions"
	DimsKey        = "dims"
)

// ActionReport is the outcome of one action module.
type ActionReport struct {
	Section string  `json:"section"`
	Module  string  `json:"module"`
	ID      string  `json:"id"`
	Action  string  `json:"action"`
	S       float64 `json:"s"`
}

// Report summarises one assembly run.
type Report struct {
	Dims             []int          `json:"dims"`
	Start            string         `json:"start"`
	AveragePlaquette float64        `json:"average_plaquette"`
	Actions          []ActionReport `json:"actions"`
	Total            float64        `json:"total"`
}

type entry struct {
	section string
	mod     module.Module[action.Action]
}

// Assembler builds the action modules of a module tree, materializes them
// against a shared grid and evaluates them on one gauge configuration.
type Assembler struct {
	log logger.Logger
	bus *eventbus.Bus[events.ModuleEvent]
	rec coremetrics.Recorder
}

// NewAssembler wires an assembler. Nil collaborators are replaced by no-ops.
func NewAssembler(log logger.Logger, bus *eventbus.Bus[events.ModuleEvent], rec coremetrics.Recorder) *Assembler {
	if log == nil {
		log = logger.NopLogger{}
	}
	if bus == nil {
		bus = eventbus.New[events.ModuleEvent]()
	}
	if rec == nil {
		rec = coremetrics.NopRecorder{}
	}
	return &Assembler{log: log, bus: bus, rec: rec}
}

// Run assembles the tree under r. Every created module is released before
// Run returns.
func (a *Assembler) Run(ctx context.Context, r *cfgreader.Koanf, run config.RunConfig) (*Report, error) {
	g, err := readGrid(r)
	if err != nil {
		return nil, err
	}
	a.log.Infow("grid", map[string]any{"dims": g.Dims(), "volume": g.Volume()})

	entries, err := a.createActions(ctx, r)
	defer a.release(entries)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if err := module.Acquire(e.mod, g); err != nil {
			a.publish(events.Failed, e, err)
			return nil, fmt.Errorf("action %s (%s): %w", e.section, e.mod.Name(), err)
		}
		a.publish(events.ResourceAcquired, e, nil)
	}

	products := make([]action.Action, len(entries))
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.mod.PrintParameters(a.log)
		start := time.Now()
		p, err := e.mod.Product()
		a.rec.RecordMaterialize(e.mod.Name(), time.Since(start), err)
		if err != nil {
			a.publish(events.Failed, e, err)
			return nil, fmt.Errorf("action %s (%s): %w", e.section, e.mod.Name(), err)
		}
		a.publish(events.Materialized, e, nil)
		products[i] = p
	}

	rng := rand.New(rand.NewPCG(run.Seed, run.Seed^0x9e3779b97f4a7c15))
	u := grid.NewColdField(g)
	if run.Start == config.StartHot {
		u = grid.NewHotField(g, rng)
	}

	rep := &Report{Dims: g.Dims(), Start: run.Start, AveragePlaquette: u.AveragePlaquette()}
	for i, p := range products {
		e := entries[i]
		if err := p.Refresh(u, rng); err != nil {
			return nil, fmt.Errorf("refresh %s: %w", e.section, err)
		}
		s, err := p.S(u)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", e.section, err)
		}
		a.rec.RecordAction(e.mod.Name(), s)
		a.log.Debugw("action evaluated", map[string]any{"section": e.section, "action": p.Name(), "s": s})
		rep.Actions = append(rep.Actions, ActionReport{
			Section: e.section,
			Module:  e.mod.Name(),
			ID:      e.mod.ID(),
			Action:  p.Name(),
			S:       s,
		})
		rep.Total += s
	}
	return rep, nil
}

func readGrid(r reader.Reader) (*grid.Grid, error) {
	var dims []int
	if err := reader.Within(r, GridSection, func() error {
		var err error
		dims, err = reader.Read[[]int](r, DimsKey)
		return err
	}); err != nil {
		return nil, err
	}
	g, err := grid.New(dims)
	if err != nil {
		return nil, reader.Errorf(GridSection, DimsKey, "%v", err)
	}
	return g, nil
}

// createActions resolves every child of the Actions section in key order.
// The modules created before a failure are returned so the caller can
// release them.
func (a *Assembler) createActions(ctx context.Context, r *cfgreader.Koanf) ([]entry, error) {
	reg := modules.Actions[*cfgreader.Koanf]()
	var entries []entry
	err := reader.Within(r, ActionsSection, func() error {
		for _, section := range r.Keys() {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := a.create(r, section, reg)
			if err != nil {
				return err
			}
			e := entry{section: section, mod: m}
			entries = append(entries, e)
			a.publish(events.Created, e, nil)
		}
		return nil
	})
	return entries, err
}

func (a *Assembler) create(r *cfgreader.Koanf, section string, reg *factory.Registry[action.Action, *cfgreader.Koanf]) (module.Module[action.Action], error) {
	var m module.Module[action.Action]
	err := reader.Within(r, section, func() error {
		id, err := reader.Read[string](r, composite.NameKey)
		if err != nil {
			return err
		}
		m, err = reg.Create(id, r)
		a.rec.RecordCreate(reg.ProductType(), id, err)
		if err != nil {
			a.bus.Publish(events.ModuleEvent{Kind: events.Failed, Section: section, Module: id, Err: err, Time: time.Now()})
		}
		return err
	})
	if err != nil {
		if m != nil {
			m.Release()
		}
		return nil, fmt.Errorf("action %s: %w", section, err)
	}
	return m, nil
}

func (a *Assembler) release(entries []entry) {
	for i := len(entries) - 1; i >= 0; i-- {
		entries[i].mod.Release()
		a.publish(events.Released, entries[i], nil)
	}
}

func (a *Assembler) publish(kind events.Kind, e entry, err error) {
	a.bus.Publish(events.ModuleEvent{
		Kind:    kind,
		Section: e.section,
		Module:  e.mod.Name(),
		ID:      e.mod.ID(),
		Err:     err,
		Time:    time.Now(),
	})
}
