package model

import (
	"context"
	"io"
	"math"
)

// Phase is a lifecycle state of a Model.
type Phase int

const (
	Constructed Phase = iota
	UnloadedAnalyzed
	EigenSolved
	CaseAnalyzed
)

func (p Phase) String() string {
	switch p {
	case Constructed:
		return "constructed"
	case UnloadedAnalyzed:
		return "unloaded-analyzed"
	case EigenSolved:
		return "eigen-solved"
	case CaseAnalyzed:
		return "case-analyzed"
	default:
		return "unknown"
	}
}

// DOF indexes the six rigid-body motion modes.
type DOF int

const (
	Surge DOF = iota
	Sway
	Heave
	Roll
	Pitch
	Yaw
)

// NumDOF is the number of rigid-body degrees of freedom.
const NumDOF = 6

// DOFs lists the modes in index order.
var DOFs = [NumDOF]DOF{Surge, Sway, Heave, Roll, Pitch, Yaw}

var dofNames = [NumDOF]string{"surge", "sway", "heave", "roll", "pitch", "yaw"}

func (d DOF) String() string {
	if d < 0 || int(d) >= NumDOF {
		return "unknown"
	}
	return dofNames[d]
}

// Rotational reports whether the mode is an angle (radians) rather than a
// displacement.
func (d DOF) Rotational() bool { return d >= Roll }

// Frequencies holds the analysis frequencies in rad/s.
type Frequencies []float64

// Hz returns the frequencies converted to Hz.
func (f Frequencies) Hz() []float64 {
	out := make([]float64, len(f))
	for i, w := range f {
		out[i] = w / (2 * math.Pi)
	}
	return out
}

// ResponseArray holds complex response amplitudes per unit wave amplitude,
// indexed by mode then frequency.
type ResponseArray struct {
	modes [NumDOF][]complex128
}

// NewResponseArray allocates a zeroed 6 x nw array.
func NewResponseArray(nw int) *ResponseArray {
	r := &ResponseArray{}
	for i := range r.modes {
		r.modes[i] = make([]complex128, nw)
	}
	return r
}

// Shape returns (modes, frequencies).
func (r *ResponseArray) Shape() (int, int) {
	return NumDOF, len(r.modes[0])
}

func (r *ResponseArray) At(d DOF, i int) complex128     { return r.modes[d][i] }
func (r *ResponseArray) Set(d DOF, i int, v complex128) { r.modes[d][i] = v }

// Mode returns a copy of one mode's values over frequency.
func (r *ResponseArray) Mode(d DOF) []complex128 {
	out := make([]complex128, len(r.modes[d]))
	copy(out, r.modes[d])
	return out
}

func (r *ResponseArray) Clone() *ResponseArray {
	c := &ResponseArray{}
	for i := range r.modes {
		c.modes[i] = r.Mode(DOF(i))
	}
	return c
}

// Statics is the unloaded equilibrium solution of one platform.
type Statics struct {
	Mass           float64
	Displacement   float64
	CG             [3]float64
	CB             [3]float64
	WaterplaneArea float64
	Hydrostatic    [NumDOF][NumDOF]float64
	Stiffness      [NumDOF][NumDOF]float64 // hydrostatic plus mooring, linearised at Offset
	Offset         [NumDOF]float64
	Iterations     int
}

// Modes holds the natural frequencies (Hz, ascending) and mode shapes of
// one platform. Shapes[k] is the k-th mode shape.
type Modes struct {
	Frequencies [NumDOF]float64
	Shapes      [NumDOF][NumDOF]float64
	Dominant    [NumDOF]DOF
}

// Periods returns the natural periods in seconds.
func (m Modes) Periods() [NumDOF]float64 {
	var p [NumDOF]float64
	for i, f := range m.Frequencies {
		if f > 0 {
			p[i] = 1 / f
		}
	}
	return p
}

// CaseSpec identifies a load case.
type CaseSpec struct {
	Index int
	Name  string
}

// CaseResponse is the frequency-domain response of one platform in one case.
type CaseResponse struct {
	RAO        *ResponseArray
	Spectrum   []float64 // wave spectral density per rad/s
	StdDev     [NumDOF]float64
	MeanOffset [NumDOF]float64
	Iterations int
}

// CaseResult collects the per-platform responses of one case.
type CaseResult struct {
	Case      CaseSpec
	Platforms []CaseResponse
}

// Diagnostic records a recoverable problem, typically a skipped load case.
type Diagnostic struct {
	Stage   string
	Case    CaseSpec
	Message string
	Err     error
}

// Engine is the physics behind a Model. Adapter guarantees the stages are
// invoked in lifecycle order, so an engine may rely on earlier results.
type Engine interface {
	NumPlatforms() int
	Frequencies() Frequencies
	Cases() []CaseSpec
	AnalyzeUnloaded(ctx context.Context) ([]Statics, error)
	SolveEigen(ctx context.Context) ([]Modes, error)
	RunCase(ctx context.Context, index int, display bool) ([]CaseResponse, error)
	Render(w io.Writer, hideGrid bool) error
}

// Model is the capability the pipeline drives.
type Model interface {
	Phase() Phase
	AnalyzeUnloaded(ctx context.Context) error
	SolveEigen(ctx context.Context) error
	AnalyzeCases(ctx context.Context, display bool) error
	PlatformResponse(index int) (Frequencies, *ResponseArray, error)
	Render(w io.Writer, hideGrid bool) error
}
