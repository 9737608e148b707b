package hydro

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/san-kum/floatsim/internal/design"
	"github.com/san-kum/floatsim/internal/model"
)

// DefaultCacheSize bounds the number of cached excitation vectors.
const DefaultCacheSize = 4096

// Engine implements model.Engine for cylinder-member platforms.
type Engine struct {
	name      string
	doc       *Document
	w, k      []float64
	platforms []*platform
	cases     []model.CaseSpec

	statics []model.Statics
	modes   []model.Modes
	offsets [][6]float64

	cache     *lru.Cache[excitationKey, [6]complex128]
	cacheSize int
	logger    *slog.Logger
}

var _ model.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCacheSize sets the excitation cache capacity.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// New validates a design and builds its platforms. Configuration problems
// are reported as design.ErrConfiguration.
func New(desc *design.Description, opts ...Option) (*Engine, error) {
	doc, err := decode(desc)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		name:      desc.Name(),
		doc:       doc,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	cache, err := lru.New[excitationKey, [6]complex128](e.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: excitation cache: %v", design.ErrConfiguration, err)
	}
	e.cache = cache

	e.w = doc.Settings.frequencies()
	e.k = make([]float64, len(e.w))
	for i, w := range e.w {
		e.k[i] = waveNumber(w, doc.Site.WaterDepth, doc.Site.G)
	}
	for i, spec := range doc.Platforms {
		e.platforms = append(e.platforms, newPlatform(i, spec, doc.Site, doc.Settings))
	}
	e.cases = caseSpecs(doc.Cases)
	e.offsets = make([][6]float64, len(e.platforms))

	e.logger.Debug("engine ready", "design", e.name, "platforms", len(e.platforms),
		"frequencies", len(e.w), "cases", len(e.cases))
	return e, nil
}

// Name returns the design name.
func (e *Engine) Name() string { return e.name }

func (e *Engine) NumPlatforms() int { return len(e.platforms) }

func (e *Engine) Frequencies() model.Frequencies {
	return append(model.Frequencies(nil), e.w...)
}

func (e *Engine) Cases() []model.CaseSpec {
	return append([]model.CaseSpec(nil), e.cases...)
}

// PlatformNames returns the platform names in index order.
func (e *Engine) PlatformNames() []string {
	names := make([]string, len(e.platforms))
	for i, p := range e.platforms {
		names[i] = p.spec.Name
	}
	return names
}

func (e *Engine) AnalyzeUnloaded(ctx context.Context) ([]model.Statics, error) {
	out := make([]model.Statics, len(e.platforms))
	for i, p := range e.platforms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st, err := p.equilibrium(e.doc.Settings.MaxStaticIter, e.doc.Settings.StaticTol)
		if err != nil {
			return nil, err
		}
		out[i] = st
		e.offsets[i] = st.Offset
		e.logger.Debug("equilibrium", "platform", i+1, "mass", st.Mass,
			"displacement", st.Displacement, "iterations", st.Iterations)
	}
	e.statics = out
	return append([]model.Statics(nil), out...), nil
}

func (e *Engine) SolveEigen(ctx context.Context) ([]model.Modes, error) {
	if len(e.statics) != len(e.platforms) {
		return nil, fmt.Errorf("eigen before statics: %w", model.ErrNotReady)
	}
	out := make([]model.Modes, len(e.platforms))
	for i, p := range e.platforms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := naturalModes(addMat6(p.m6, p.a6), e.statics[i].Stiffness)
		if err != nil {
			return nil, fmt.Errorf("platform %d: %w", i+1, err)
		}
		out[i] = m
		e.logger.Debug("natural frequencies", "platform", i+1, "hz", m.Frequencies)
	}
	e.modes = out
	return append([]model.Modes(nil), out...), nil
}

func (e *Engine) RunCase(ctx context.Context, index int, display bool) ([]model.CaseResponse, error) {
	if len(e.statics) != len(e.platforms) {
		return nil, fmt.Errorf("case before statics: %w", model.ErrNotReady)
	}
	lc, err := resolveCase(e.doc.Cases, index, e.doc.Site.SeaStates)
	if err != nil {
		return nil, err
	}
	s := lc.waveSpectrum(e.w)

	level := slog.LevelDebug
	if display {
		level = slog.LevelInfo
	}
	out := make([]model.CaseResponse, len(e.platforms))
	for i, p := range e.platforms {
		resp, err := e.respond(ctx, p, lc, s)
		if err != nil {
			return nil, err
		}
		out[i] = resp
		e.offsets[i] = resp.MeanOffset
		e.logger.Log(ctx, level, "case response",
			"case", index+1, "platform", i+1, "spectrum", lc.spectrum,
			"iterations", resp.Iterations, "std", resp.StdDev, "offset", resp.MeanOffset)
	}
	return out, nil
}

// Render draws the platforms at their latest mean offset.
func (e *Engine) Render(w io.Writer, hideGrid bool) error {
	_, err := io.WriteString(w, e.wireframe(hideGrid))
	return err
}
