package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/storage"
)

type Data struct {
	ID          string       `json:"id"`
	Design      string       `json:"design"`
	Source      string       `json:"source"`
	Digest      string       `json:"digest"`
	CreatedAt   time.Time    `json:"created_at"`
	ElapsedMS   int64        `json:"elapsed_ms"`
	Frequencies []float64    `json:"frequencies"`
	Platforms   []Platform   `json:"platforms"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

type Platform struct {
	Index        int       `json:"index"`
	Mass         float64   `json:"mass"`
	Displacement float64   `json:"displacement"`
	Offset       []float64 `json:"offset"`
	NaturalHz    []float64 `json:"natural_hz,omitempty"`
	Dominant     []string  `json:"dominant,omitempty"`
	Cases        []Case    `json:"cases"`
}

type Case struct {
	Index      int                  `json:"index"`
	Name       string               `json:"name"`
	StdDev     []float64            `json:"std_dev"`
	MeanOffset []float64            `json:"mean_offset"`
	Iterations int                  `json:"iterations"`
	RAO        map[string][]Complex `json:"rao"`
}

// Complex is a response amplitude split into its parts.
type Complex struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

type Diagnostic struct {
	Stage   string `json:"stage"`
	Case    int    `json:"case"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewData reshapes a stored run platform-first.
func NewData(run *storage.Run) *Data {
	data := &Data{
		ID:          run.ID,
		Design:      run.Design,
		Source:      run.Source,
		Digest:      run.Digest,
		CreatedAt:   run.CreatedAt,
		ElapsedMS:   run.Elapsed.Milliseconds(),
		Frequencies: run.Frequencies,
		Platforms:   make([]Platform, run.NumPlatforms()),
	}

	for p := range data.Platforms {
		pl := &data.Platforms[p]
		pl.Index = p
		pl.Cases = []Case{}
		if p < len(run.Statics) {
			st := run.Statics[p]
			pl.Mass, pl.Displacement, pl.Offset = st.Mass, st.Displacement, st.Offset[:]
		}
		if p < len(run.Modes) {
			m := run.Modes[p]
			pl.NaturalHz = m.Frequencies[:]
			for _, d := range m.Dominant {
				pl.Dominant = append(pl.Dominant, d.String())
			}
		}
		for _, c := range run.Cases {
			if p >= len(c.Platforms) {
				continue
			}
			resp := c.Platforms[p]
			jc := Case{
				Index:      c.Case.Index,
				Name:       c.Case.Name,
				StdDev:     resp.StdDev[:],
				MeanOffset: resp.MeanOffset[:],
				Iterations: resp.Iterations,
				RAO:        make(map[string][]Complex, model.NumDOF),
			}
			if resp.RAO != nil {
				for _, d := range model.DOFs {
					vals := resp.RAO.Mode(d)
					out := make([]Complex, len(vals))
					for i, v := range vals {
						out[i] = Complex{Re: real(v), Im: imag(v)}
					}
					jc.RAO[d.String()] = out
				}
			}
			pl.Cases = append(pl.Cases, jc)
		}
	}

	for _, d := range run.Diagnostics {
		jd := Diagnostic{Stage: d.Stage, Case: d.Case.Index + 1, Name: d.Case.Name, Message: d.Message}
		if d.Err != nil {
			jd.Error = d.Err.Error()
		}
		data.Diagnostics = append(data.Diagnostics, jd)
	}
	return data
}

func WriteJSON(w io.Writer, run *storage.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewData(run))
}
