package app

import (
	"context"
	"fmt"

	"github.com/kilianp07/hmcmod/config"
	"github.com/kilianp07/hmcmod/core/composite"
	"github.com/kilianp07/hmcmod/core/events"
	coremetrics "github.com/kilianp07/hmcmod/core/metrics"
	"github.com/kilianp07/hmcmod/core/module"
	"github.com/kilianp07/hmcmod/infra/logger"
	inframetrics "github.com/kilianp07/hmcmod/infra/metrics"
	cfgreader "github.com/kilianp07/hmcmod/infra/reader"
	"github.com/kilianp07/hmcmod/internal/eventbus"
	"github.com/kilianp07/hmcmod/qcd/modules"
)

// Service owns the collaborators of an assembly run.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	bus       *eventbus.Bus[events.ModuleEvent]
	recorder  module.Module[coremetrics.Recorder]
	rec       coremetrics.Recorder
	assembler *Assembler
}

// New registers the builtin modules and resolves the metrics recorder.
func New(cfg *config.Config) (*Service, error) {
	modules.Register()
	inframetrics.Register()

	log := logger.New("assembler")
	bus := eventbus.New[events.ModuleEvent]()
	bus.Subscribe(func(e events.ModuleEvent) {
		if e.Err != nil {
			log.Warnf("module %s (%s) %s: %v", e.Section, e.Module, e.Kind, e.Err)
			return
		}
		log.Debugw("module event", map[string]any{"event": string(e.Kind), "section": e.Section, "module": e.Module, "id": e.ID})
	})

	s := &Service{cfg: cfg, log: log, bus: bus, rec: coremetrics.NopRecorder{}}
	mr, ok, err := cfg.MetricsReader()
	if err != nil {
		return nil, err
	}
	if ok {
		rec, err := composite.Resolve(mr, config.MetricsSection, coremetrics.Recorders[*cfgreader.Koanf]())
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		p, err := rec.Product()
		if err != nil {
			rec.Release()
			return nil, fmt.Errorf("metrics: %w", err)
		}
		rec.PrintParameters(log)
		s.recorder, s.rec = rec, p
	}
	s.assembler = NewAssembler(log, bus, s.rec)
	return s, nil
}

// Run assembles the configured module tree once.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	r, err := s.cfg.Reader()
	if err != nil {
		return nil, err
	}
	rep, err := s.assembler.Run(ctx, r, s.cfg.Run)
	if err != nil {
		return nil, err
	}
	s.log.Infow("assembly complete", map[string]any{
		"actions":           len(rep.Actions),
		"total":             rep.Total,
		"average_plaquette": rep.AveragePlaquette,
	})
	return rep, nil
}

// Events exposes the module lifecycle bus.
func (s *Service) Events() *eventbus.Bus[events.ModuleEvent] { return s.bus }

// Close flushes the recorder and releases it.
func (s *Service) Close() error {
	err := s.rec.Flush()
	if s.recorder != nil {
		s.recorder.Release()
	}
	s.bus.Close()
	if err != nil {
		return fmt.Errorf("flush metrics: %w", err)
	}
	return nil
}
