// Package experiment runs complete design analyses: load, pipeline,
// extraction and the record kept in run history.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/floatsim/internal/design"
	"github.com/san-kum/floatsim/internal/hydro"
	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/pipeline"
	"github.com/san-kum/floatsim/internal/storage"
)

type Config struct {
	Platform  int
	Display   bool
	CacheSize int
	Observers []pipeline.Observer
}

// Outcome is a finished analysis.
type Outcome struct {
	Design *design.Description
	Source string
	Engine *hydro.Engine
	Model  *model.Adapter
	Report *pipeline.Report
	Result *pipeline.Result
}

type Experiment struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{cfg: cfg, logger: logger}
}

// Run analyses one design. The returned error is a *model.StageError when a
// pipeline stage failed, in which case no result exists.
func (e *Experiment) Run(ctx context.Context, desc *design.Description, source string) (*Outcome, error) {
	logger := e.logger.With("design", desc.Name())

	opts := []hydro.Option{hydro.WithLogger(logger)}
	if e.cfg.CacheSize > 0 {
		opts = append(opts, hydro.WithCacheSize(e.cfg.CacheSize))
	}
	engine, err := hydro.New(desc, opts...)
	if err != nil {
		return nil, err
	}
	if e.cfg.Platform < 0 || e.cfg.Platform >= engine.NumPlatforms() {
		return nil, fmt.Errorf("platform %d of %d: %w", e.cfg.Platform, engine.NumPlatforms(), model.ErrPlatformIndex)
	}

	m := model.New(engine, model.WithLogger(logger))
	popts := []pipeline.Option{pipeline.WithLogger(logger)}
	for _, o := range e.cfg.Observers {
		popts = append(popts, pipeline.WithObserver(o))
	}
	report, err := pipeline.Default(e.cfg.Display, popts...).Execute(ctx, m)
	if err != nil {
		return nil, err
	}

	result, err := pipeline.Extract(m, e.cfg.Platform)
	if err != nil {
		return nil, err
	}
	return &Outcome{Design: desc, Source: source, Engine: engine, Model: m, Report: report, Result: result}, nil
}

// Record converts an outcome into its run history entry.
func (o *Outcome) Record() (*storage.Run, error) {
	statics, err := o.Model.Statics()
	if err != nil {
		return nil, err
	}
	modes, err := o.Model.Modes()
	if err != nil {
		return nil, err
	}
	results, err := o.Model.Results()
	if err != nil {
		return nil, err
	}
	var elapsed time.Duration
	if o.Report != nil {
		elapsed = o.Report.Total
	}
	return &storage.Run{
		Design:      o.Design.Name(),
		Source:      o.Source,
		Digest:      o.Design.Digest(),
		Elapsed:     elapsed,
		Frequencies: o.Model.Frequencies(),
		Statics:     statics,
		Modes:       modes,
		Cases:       results,
		Diagnostics: o.Model.Diagnostics(),
	}, nil
}
