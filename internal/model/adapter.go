package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Adapter implements Model on top of an Engine and owns the lifecycle state.
type Adapter struct {
	engine      Engine
	phase       Phase
	statics     []Statics
	modes       []Modes
	results     []CaseResult
	diagnostics []Diagnostic
	logger      *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for case diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// New wraps engine in a freshly constructed model.
func New(engine Engine, opts ...Option) *Adapter {
	a := &Adapter{engine: engine, phase: Constructed}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

func (a *Adapter) Phase() Phase { return a.phase }

// enter checks that a stage needing phase pre and producing phase out may run.
func (a *Adapter) enter(stage string, pre, out Phase) error {
	switch {
	case a.phase < pre:
		return fmt.Errorf("%s needs %s, model is %s: %w", stage, pre, a.phase, ErrNotReady)
	case a.phase > out:
		return fmt.Errorf("%s after %s: %w", stage, a.phase, ErrOutOfOrder)
	}
	return nil
}

func (a *Adapter) AnalyzeUnloaded(ctx context.Context) error {
	if err := a.enter("analyze-unloaded", Constructed, UnloadedAnalyzed); err != nil {
		return err
	}
	statics, err := a.engine.AnalyzeUnloaded(ctx)
	if err != nil {
		return err
	}
	a.statics = statics
	a.phase = UnloadedAnalyzed
	return nil
}

func (a *Adapter) SolveEigen(ctx context.Context) error {
	if err := a.enter("solve-eigen", UnloadedAnalyzed, EigenSolved); err != nil {
		return err
	}
	modes, err := a.engine.SolveEigen(ctx)
	if err != nil {
		return err
	}
	a.modes = modes
	a.phase = EigenSolved
	return nil
}

// AnalyzeCases runs every load case. Cases failing with ErrCaseDefinition are
// skipped and recorded as diagnostics; any other failure aborts the stage.
// A failed run leaves results and diagnostics of the previous run in place.
func (a *Adapter) AnalyzeCases(ctx context.Context, display bool) error {
	if err := a.enter("analyze-cases", EigenSolved, CaseAnalyzed); err != nil {
		return err
	}

	cases := a.engine.Cases()
	if len(cases) == 0 {
		return fmt.Errorf("no load cases defined: %w", ErrCaseDefinition)
	}

	results := make([]CaseResult, 0, len(cases))
	diags := make([]Diagnostic, 0)
	var skipped []error
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := a.engine.RunCase(ctx, c.Index, display)
		if err != nil {
			if errors.Is(err, ErrCaseDefinition) {
				d := Diagnostic{Stage: "analyze-cases", Case: c, Message: "case skipped", Err: err}
				diags = append(diags, d)
				a.logger.Warn("load case skipped", "case", c.Index+1, "name", c.Name, "error", err)
				skipped = append(skipped, &CaseError{Index: c.Index, Name: c.Name, Err: err})
				continue
			}
			return &CaseError{Index: c.Index, Name: c.Name, Err: err}
		}
		results = append(results, CaseResult{Case: c, Platforms: resp})
	}

	if len(results) == 0 {
		return fmt.Errorf("all %d load cases failed: %w", len(cases), errors.Join(skipped...))
	}
	a.results = results
	a.diagnostics = diags
	a.phase = CaseAnalyzed
	return nil
}

// PlatformResponse returns the frequencies and the RAO of the most recently
// analyzed case for one platform.
func (a *Adapter) PlatformResponse(index int) (Frequencies, *ResponseArray, error) {
	if a.phase < CaseAnalyzed {
		return nil, nil, fmt.Errorf("platform response in phase %s: %w", a.phase, ErrNotReady)
	}
	return a.CaseResponse(index, len(a.results)-1)
}

// CaseResponse returns the RAO of one platform for the n-th successful case.
func (a *Adapter) CaseResponse(platform, n int) (Frequencies, *ResponseArray, error) {
	if a.phase < CaseAnalyzed {
		return nil, nil, fmt.Errorf("case response in phase %s: %w", a.phase, ErrNotReady)
	}
	if platform < 0 || platform >= a.engine.NumPlatforms() {
		return nil, nil, fmt.Errorf("platform %d of %d: %w", platform, a.engine.NumPlatforms(), ErrPlatformIndex)
	}
	if n < 0 || n >= len(a.results) {
		return nil, nil, fmt.Errorf("case result %d of %d: %w", n, len(a.results), ErrNotReady)
	}
	src := a.engine.Frequencies()
	w := make(Frequencies, len(src))
	copy(w, src)
	return w, a.results[n].Platforms[platform].RAO.Clone(), nil
}

func (a *Adapter) Render(w io.Writer, hideGrid bool) error {
	return a.engine.Render(w, hideGrid)
}

// NumPlatforms returns the number of platforms in the design.
func (a *Adapter) NumPlatforms() int { return a.engine.NumPlatforms() }

// Statics returns the equilibrium solutions once the unloaded stage ran.
func (a *Adapter) Statics() ([]Statics, error) {
	if a.phase < UnloadedAnalyzed {
		return nil, fmt.Errorf("statics in phase %s: %w", a.phase, ErrNotReady)
	}
	return append([]Statics(nil), a.statics...), nil
}

// Modes returns the eigen solutions once the eigen stage ran.
func (a *Adapter) Modes() ([]Modes, error) {
	if a.phase < EigenSolved {
		return nil, fmt.Errorf("modes in phase %s: %w", a.phase, ErrNotReady)
	}
	return append([]Modes(nil), a.modes...), nil
}

// Results returns the successful case results in case order.
func (a *Adapter) Results() ([]CaseResult, error) {
	if a.phase < CaseAnalyzed {
		return nil, fmt.Errorf("results in phase %s: %w", a.phase, ErrNotReady)
	}
	return append([]CaseResult(nil), a.results...), nil
}

// Diagnostics returns the problems recorded by the last case analysis.
func (a *Adapter) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), a.diagnostics...)
}

// Frequencies returns a copy of the analysis frequencies.
func (a *Adapter) Frequencies() Frequencies {
	return append(Frequencies(nil), a.engine.Frequencies()...)
}
