package main

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/floatsim/internal/analysis"
	"github.com/san-kum/floatsim/internal/design"
	"github.com/san-kum/floatsim/internal/experiment"
	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/plot"
	"github.com/san-kum/floatsim/internal/storage"
	"github.com/san-kum/floatsim/internal/viz"
)

// designRef picks the design reference from --preset or the argument.
func designRef(args []string) (string, error) {
	switch {
	case preset != "" && len(args) > 0:
		return "", fmt.Errorf("%w: give either a design file or --preset", design.ErrConfiguration)
	case preset != "":
		return experiment.PresetPrefix + preset, nil
	case len(args) == 1:
		return args[0], nil
	}
	return "", fmt.Errorf("%w: no design given (see floatsim presets)", design.ErrConfiguration)
}

func runDesign(cmd *cobra.Command, args []string) error {
	ref, err := designRef(args)
	if err != nil {
		return err
	}
	var seriesMode model.DOF = -1
	if series != "" {
		if seriesMode, err = parseDOF(series); err != nil {
			return err
		}
	}

	desc, source, err := experiment.NewRegistry().Resolve(ref)
	if err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{Platform: platform, Display: display}, logger)
	out, err := exp.Run(cmd.Context(), desc, source)
	if err != nil {
		return err
	}

	fmt.Println(viz.LookupPalette(cfg.Plot.Palette).Gradient(desc.Name()))
	printModes(out)
	printCases(out)

	if save {
		id, err := saveOutcome(cmd.Context(), out)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", id)
	}

	title := fmt.Sprintf("%s, %s", desc.Name(), out.Engine.PlatformNames()[platform])
	fig := plot.NewFigure(plot.Options{
		Title:         title,
		LengthUnit:    cfg.LengthUnit,
		FrequencyUnit: cfg.FrequencyUnit,
	})
	defer fig.Close()
	if err := fig.Draw(out.Result.Channels); err != nil {
		return err
	}

	if outPath != "" {
		if err := saveFigure(fig, outPath); err != nil {
			return err
		}
		fmt.Printf("figure written to %s\n", outPath)
	}

	var wire string
	if render || view {
		var buf bytes.Buffer
		if err := out.Model.Render(&buf, hideGrid); err != nil {
			return err
		}
		wire = buf.String()
	}

	if view {
		return viz.RunViewer(viz.NewViewer(title, fig, wire).WithPalette(cfg.Plot.Palette))
	}

	fmt.Println()
	if err := viz.WriteFigure(os.Stdout, fig, graphOptions()); err != nil {
		return err
	}
	if render {
		fmt.Println(wire)
	}
	if seriesMode >= 0 {
		return printSeries(out, seriesMode)
	}
	return nil
}

func graphOptions() viz.GraphOptions {
	return viz.GraphOptions{Width: cfg.Plot.Width, Height: cfg.Plot.Height, Color: cfg.Plot.Color}
}

func saveFigure(fig *plot.Figure, path string) error {
	format, err := plot.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := plot.SaveImage(fig, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveOutcome(ctx context.Context, out *experiment.Outcome) (string, error) {
	rec, err := out.Record()
	if err != nil {
		return "", err
	}
	st, err := storage.Open(cfg.DataDir)
	if err != nil {
		return "", err
	}
	defer st.Close()
	return st.Save(ctx, rec)
}

func printModes(out *experiment.Outcome) {
	modes, err := out.Model.Modes()
	if err != nil || platform >= len(modes) {
		return
	}
	m := modes[platform]
	periods := m.Periods()

	fmt.Println("\nnatural modes:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tFREQ (Hz)\tPERIOD (s)\tDOMINANT")
	for k := range m.Frequencies {
		fmt.Fprintf(w, "%d\t%.4f\t%.2f\t%s\n", k+1, m.Frequencies[k], periods[k], m.Dominant[k])
	}
	w.Flush()
}

func printCases(out *experiment.Outcome) {
	results, err := out.Model.Results()
	if err != nil {
		return
	}
	w := out.Model.Frequencies()

	fmt.Println("\nload cases:")
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tNAME\tSURGE σ\tPITCH σ (deg)\tHEAVE SIG. AMP.\tHEAVE Tz (s)\tPEAK HEAVE (rad/s)\tITER")
	for _, r := range results {
		resp := r.Platforms[platform]
		heave := resp.RAO.Mode(model.Heave)
		rs := analysis.ResponseSpectrum(heave, resp.Spectrum)
		peak, _, idx := analysis.Peak(w, analysis.Magnitudes(heave))
		peakText := "-"
		if idx >= 0 {
			peakText = fmt.Sprintf("%.3f", peak)
		}
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.3f\t%.3f\t%.2f\t%s\t%d\n",
			r.Case.Index+1, r.Case.Name,
			resp.StdDev[model.Surge], degrees(resp.StdDev[model.Pitch]),
			analysis.SignificantAmplitude(w, rs), analysis.ZeroCrossingPeriod(w, rs),
			peakText, resp.Iterations)
	}
	tw.Flush()

	for _, d := range out.Model.Diagnostics() {
		fmt.Printf("skipped case %d (%s): %v\n", d.Case.Index+1, d.Case.Name, d.Err)
	}
}

// printSeries plots a synthetic time trace of one mode in the last case.
func printSeries(out *experiment.Outcome, d model.DOF) error {
	results, err := out.Model.Results()
	if err != nil {
		return err
	}
	last := results[len(results)-1]
	resp := last.Platforms[platform]

	t, x, err := analysis.TimeSeries(out.Model.Frequencies(), resp.Spectrum, resp.RAO.Mode(d), seriesSeed)
	if err != nil {
		return err
	}
	if d.Rotational() {
		for i := range x {
			x[i] = degrees(x[i])
		}
	}
	caption := fmt.Sprintf("%s, case %s, %.0f s", d, last.Case.Name, t[len(t)-1])
	fmt.Println(asciigraph.Plot(x,
		asciigraph.Height(cfg.Plot.Height),
		asciigraph.Width(cfg.Plot.Width),
		asciigraph.Caption(caption),
	))
	return nil
}

func parseDOF(s string) (model.DOF, error) {
	for _, d := range model.DOFs {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return -1, fmt.Errorf("%w: unknown mode %q", design.ErrConfiguration, s)
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func listPresets(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	fmt.Println("built-in designs:")
	for _, name := range reg.ListPresets() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
