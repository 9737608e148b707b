// Package modeltest provides an in-memory model.Engine for tests.
package modeltest

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/floatsim/internal/model"
)

// Engine is a deterministic model.Engine. Each RAO value depends only on the
// mode, the frequency index and the case index, so tests can predict it.
type Engine struct {
	Platforms int
	Nw        int
	CaseNames []string

	// Failures maps a case index to the error RunCase returns for it.
	Failures   map[int]error
	StaticsErr error
	EigenErr   error

	Calls []string
}

// New returns an engine with one platform, nw frequencies and the given cases.
func New(nw int, cases ...string) *Engine {
	if len(cases) == 0 {
		cases = []string{"case"}
	}
	return &Engine{Platforms: 1, Nw: nw, CaseNames: cases, Failures: map[int]error{}}
}

func (e *Engine) NumPlatforms() int { return e.Platforms }

func (e *Engine) Frequencies() model.Frequencies {
	w := make(model.Frequencies, e.Nw)
	for i := range w {
		w[i] = 0.1 * float64(i+1)
	}
	return w
}

func (e *Engine) Cases() []model.CaseSpec {
	specs := make([]model.CaseSpec, len(e.CaseNames))
	for i, name := range e.CaseNames {
		specs[i] = model.CaseSpec{Index: i, Name: name}
	}
	return specs
}

func (e *Engine) AnalyzeUnloaded(ctx context.Context) ([]model.Statics, error) {
	e.Calls = append(e.Calls, "unloaded")
	if e.StaticsErr != nil {
		return nil, e.StaticsErr
	}
	out := make([]model.Statics, e.Platforms)
	for i := range out {
		out[i] = model.Statics{Mass: 1e6, Displacement: 1e3, Offset: [model.NumDOF]float64{0, 0, -0.5}}
	}
	return out, nil
}

func (e *Engine) SolveEigen(ctx context.Context) ([]model.Modes, error) {
	e.Calls = append(e.Calls, "eigen")
	if e.EigenErr != nil {
		return nil, e.EigenErr
	}
	out := make([]model.Modes, e.Platforms)
	for i := range out {
		for k := range out[i].Frequencies {
			out[i].Frequencies[k] = 0.01 * float64(k+1)
			out[i].Dominant[k] = model.DOF(k)
		}
	}
	return out, nil
}

func (e *Engine) RunCase(ctx context.Context, index int, display bool) ([]model.CaseResponse, error) {
	e.Calls = append(e.Calls, fmt.Sprintf("case-%d", index))
	if err := e.Failures[index]; err != nil {
		return nil, err
	}
	out := make([]model.CaseResponse, e.Platforms)
	for p := range out {
		rao := model.NewResponseArray(e.Nw)
		for _, d := range model.DOFs {
			for i := 0; i < e.Nw; i++ {
				rao.Set(d, i, Value(d, i, index))
			}
		}
		out[p] = model.CaseResponse{RAO: rao, Spectrum: make([]float64, e.Nw)}
	}
	return out, nil
}

func (e *Engine) Render(w io.Writer, hideGrid bool) error {
	_, err := fmt.Fprintf(w, "platforms=%d grid=%t\n", e.Platforms, !hideGrid)
	return err
}

// Value is the RAO entry Engine produces for a mode, frequency and case.
func Value(d model.DOF, i, caseIndex int) complex128 {
	mag := float64(int(d)+1) / float64(i+1)
	phase := 0.1 * float64(caseIndex+1)
	return complex(mag*math.Cos(phase), mag*math.Sin(phase))
}
