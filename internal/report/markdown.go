// Package report renders stored runs as Markdown.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/san-kum/floatsim/internal/analysis"
	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/storage"
)

// Write renders run as a Markdown document.
func Write(w io.Writer, run *storage.Run) error {
	md := markdown.NewMarkdown(w)

	writeHeader(md, run)
	for p := 0; p < run.NumPlatforms(); p++ {
		writePlatform(md, run, p)
	}
	writeDiagnostics(md, run.Diagnostics)

	return md.Build()
}

func writeHeader(md *markdown.Markdown, run *storage.Run) {
	md.H1(run.Design + " analysis")
	md.PlainText("")

	freqs := "-"
	if n := len(run.Frequencies); n > 0 {
		freqs = fmt.Sprintf("%d (%s to %s rad/s)", n, num(run.Frequencies[0]), num(run.Frequencies[n-1]))
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + run.ID + "`"},
			{"Source", run.Source},
			{"Date", run.CreatedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", run.Elapsed.String()},
			{"Platforms", strconv.Itoa(run.NumPlatforms())},
			{"Frequencies", freqs},
			{"Load cases", strconv.Itoa(len(run.Cases))},
		},
	})
	md.PlainText("")
}

func writePlatform(md *markdown.Markdown, run *storage.Run, p int) {
	md.H2(fmt.Sprintf("Platform %d", p))
	md.PlainText("")

	if p < len(run.Statics) {
		st := run.Statics[p]
		md.H3("Statics")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Mass (kg)", "Displacement (m³)", "Surge (m)", "Heave (m)", "Pitch (deg)", "Iterations"},
			Rows: [][]string{{
				num(st.Mass), num(st.Displacement),
				num(st.Offset[model.Surge]), num(st.Offset[model.Heave]),
				num(deg(st.Offset[model.Pitch])), strconv.Itoa(st.Iterations),
			}},
		})
		md.PlainText("")
	}

	if p < len(run.Modes) {
		m := run.Modes[p]
		periods := m.Periods()
		rows := make([][]string, model.NumDOF)
		for k := range rows {
			rows[k] = []string{strconv.Itoa(k + 1), num(m.Frequencies[k]), num(periods[k]), m.Dominant[k].String()}
		}
		md.H3("Natural modes")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Mode", "Frequency (Hz)", "Period (s)", "Dominant"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(run.Cases) == 0 {
		return
	}
	md.H3("Load cases")
	md.PlainText("")

	header := []string{"Case", "Name"}
	for _, d := range model.DOFs {
		header = append(header, "σ "+d.String())
	}
	rows := make([][]string, 0, len(run.Cases))
	peaks := make([][]string, 0, len(run.Cases))
	for _, c := range run.Cases {
		if p >= len(c.Platforms) {
			continue
		}
		resp := c.Platforms[p]
		row := []string{strconv.Itoa(c.Case.Index + 1), c.Case.Name}
		for _, d := range model.DOFs {
			v := resp.StdDev[d]
			if d.Rotational() {
				v = deg(v)
			}
			row = append(row, num(v))
		}
		rows = append(rows, row)

		if resp.RAO != nil {
			peaks = append(peaks, peakRow(c.Case, resp.RAO, run.Frequencies))
		}
	}
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
	md.PlainText("Rotational standard deviations are in degrees.")
	md.PlainText("")

	if len(peaks) > 0 {
		header := []string{"Case"}
		for _, d := range model.DOFs {
			header = append(header, d.String()+" peak (rad/s)")
		}
		md.H3("RAO peaks")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: header, Rows: peaks})
		md.PlainText("")
	}
}

func peakRow(c model.CaseSpec, rao *model.ResponseArray, w model.Frequencies) []string {
	row := []string{c.Name}
	for _, d := range model.DOFs {
		freq, value, idx := analysis.Peak(w, analysis.Magnitudes(rao.Mode(d)))
		if idx < 0 || value == 0 {
			row = append(row, "-")
			continue
		}
		row = append(row, num(freq))
	}
	return row
}

func writeDiagnostics(md *markdown.Markdown, diags []model.Diagnostic) {
	md.H2("Diagnostics")
	md.PlainText("")

	if len(diags) == 0 {
		md.Tip("All load cases completed.")
		md.PlainText("")
		return
	}

	md.Warningf("%d load case(s) were skipped.", len(diags))
	md.PlainText("")
	items := make([]string, len(diags))
	for i, d := range diags {
		item := fmt.Sprintf("case %d (%s): %s", d.Case.Index+1, d.Case.Name, d.Message)
		if d.Err != nil {
			item += ": " + d.Err.Error()
		}
		items[i] = item
	}
	md.BulletList(items...)
	md.PlainText("")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func deg(rad float64) float64 {
	return rad * 180 / math.Pi
}
