package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/floatsim/internal/model"
)

// Driver runs stages against a model, once each, in order.
type Driver struct {
	stages    []Stage
	logger    *slog.Logger
	observers []Observer
}

// Option configures a Driver.
type Option func(*Driver)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

func WithObserver(o Observer) Option {
	return func(d *Driver) {
		d.observers = append(d.observers, o)
	}
}

func New(stages []Stage, opts ...Option) *Driver {
	d := &Driver{stages: stages}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Default builds the fixed unloaded, eigen, cases sequence.
func Default(display bool, opts ...Option) *Driver {
	return New([]Stage{UnloadedStage{}, EigenStage{}, CaseStage{Display: display}}, opts...)
}

// Stages returns the stage names in execution order.
func (d *Driver) Stages() []string {
	names := make([]string, len(d.stages))
	for i, s := range d.stages {
		names[i] = s.Name()
	}
	return names
}

// Execute runs each stage synchronously. The first failure stops the run
// and is returned as a *model.StageError; later stages never start.
func (d *Driver) Execute(ctx context.Context, m model.Model) (*Report, error) {
	if m == nil {
		return nil, fmt.Errorf("pipeline: nil model")
	}

	report := &Report{Stages: make([]StageTiming, 0, len(d.stages))}
	begin := time.Now()
	for i, s := range d.stages {
		if err := ctx.Err(); err != nil {
			return report, &model.StageError{Stage: s.Name(), Err: err}
		}

		d.logger.Info("stage started", "stage", s.Name(), "step", i+1, "of", len(d.stages))
		for _, o := range d.observers {
			o.OnStageStart(s.Name())
		}

		start := time.Now()
		err := s.Run(ctx, m)
		elapsed := time.Since(start)

		for _, o := range d.observers {
			o.OnStageDone(s.Name(), elapsed, err)
		}
		if err != nil {
			d.logger.Error("stage failed", "stage", s.Name(), "elapsed", elapsed, "error", err)
			return report, &model.StageError{Stage: s.Name(), Err: err}
		}
		d.logger.Info("stage finished", "stage", s.Name(), "elapsed", elapsed, "phase", m.Phase())
		report.Stages = append(report.Stages, StageTiming{Stage: s.Name(), Elapsed: elapsed})
	}
	report.Total = time.Since(begin)
	return report, nil
}
