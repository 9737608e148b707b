package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/floatsim/internal/export"
	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/plot"
	"github.com/san-kum/floatsim/internal/report"
	"github.com/san-kum/floatsim/internal/storage"
	"github.com/san-kum/floatsim/internal/viz"
)

func openStore() (*storage.Store, error) {
	return storage.Open(cfg.DataDir)
}

// loadRun opens the store and reads the run matching an id prefix.
func loadRun(cmd *cobra.Command, prefix string) (*storage.Run, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	id, err := st.Resolve(cmd.Context(), prefix)
	if err != nil {
		return nil, err
	}
	return st.Load(cmd.Context(), id)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESIGN\tTIME\tELAPSED\tPLATFORMS\tCASES\tSKIPPED\tSOURCE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			shortID(run.ID),
			run.Design,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Elapsed,
			run.Platforms,
			run.Cases,
			run.Diagnostics,
			run.Source,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run:    %s\n", run.ID)
	fmt.Printf("design: %s (%s)\n", run.Design, run.Source)
	fmt.Printf("date:   %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("cases:  %d recorded, %d skipped\n", len(run.Cases), len(run.Diagnostics))
	if len(run.Cases) == 0 {
		return nil
	}

	n := len(run.Cases) - 1
	if caseNum > 0 {
		n = -1
		for i, c := range run.Cases {
			if c.Case.Index+1 == caseNum {
				n = i
			}
		}
		if n < 0 {
			return fmt.Errorf("case %d not recorded in run %s: %w", caseNum, run.ID, model.ErrNotReady)
		}
	}
	c := run.Cases[n]
	if platform < 0 || platform >= len(c.Platforms) {
		return fmt.Errorf("platform %d of %d: %w", platform, len(c.Platforms), model.ErrPlatformIndex)
	}

	ch, err := plot.NewChannels(run.Frequencies, c.Platforms[platform].RAO)
	if err != nil {
		return err
	}
	fig := plot.NewFigure(plot.Options{
		Title:         fmt.Sprintf("%s, case %s, platform %d", run.Design, c.Case.Name, platform),
		LengthUnit:    cfg.LengthUnit,
		FrequencyUnit: cfg.FrequencyUnit,
	})
	defer fig.Close()
	if err := fig.Draw(ch); err != nil {
		return err
	}
	fmt.Println()
	return viz.WriteFigure(os.Stdout, fig, graphOptions())
}

// output returns the --out file or stdout.
func output() (io.WriteCloser, error) {
	if outPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportRun(cmd *cobra.Command, args []string) error {
	f := export.FormatJSON
	var err error
	switch {
	case format != "":
		f, err = export.ParseFormat(format)
	case outPath != "":
		f, err = export.FormatFromPath(outPath)
	}
	if err != nil {
		return err
	}

	run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	if err := export.Write(w, f, run); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func reportRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	if err := report.Write(w, run); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Resolve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", id)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
