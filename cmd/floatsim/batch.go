package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/floatsim/internal/experiment"
	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/storage"
)

func runBatch(cmd *cobra.Command, args []string) error {
	n := jobs
	if n <= 0 {
		n = cfg.Jobs
	}

	exp := experiment.New(experiment.Config{}, logger)
	results := exp.Batch(cmd.Context(), experiment.NewRegistry(), args, n)

	var st *storage.Store
	if save {
		var err error
		if st, err = storage.Open(cfg.DataDir); err != nil {
			return err
		}
		defer st.Close()
	}

	failed := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DESIGN\tSTATUS\tELAPSED\tCASES\tSKIPPED\tRUN")
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\t-\n", r.Ref, failure(r.Err), r.Elapsed.Round(time.Millisecond))
			continue
		}
		rec, err := r.Outcome.Record()
		if err != nil {
			return err
		}
		id := "-"
		if st != nil {
			if id, err = st.Save(cmd.Context(), rec); err != nil {
				return err
			}
			id = shortID(id)
		}
		fmt.Fprintf(w, "%s\tok\t%s\t%d\t%d\t%s\n", r.Ref, r.Elapsed.Round(time.Millisecond), len(rec.Cases), len(rec.Diagnostics), id)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Ref, r.Err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d designs failed", failed, len(results))
	}
	return nil
}

// failure names the stage a design failed in.
func failure(err error) string {
	var se *model.StageError
	if errors.As(err, &se) {
		return "failed in " + se.Stage
	}
	return "failed to load"
}
