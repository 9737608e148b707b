package experiment

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one design in a batch. Exactly one of
// Outcome and Err is set.
type BatchResult struct {
	Ref     string
	Outcome *Outcome
	Err     error
	Elapsed time.Duration
}

// Batch analyses every reference with at most jobs concurrent runs. Each
// design gets its own engine and model; a failing design does not stop the
// others. Results are in reference order.
func (e *Experiment) Batch(ctx context.Context, reg *Registry, refs []string, jobs int) []BatchResult {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]BatchResult, len(refs))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, ref := range refs {
		g.Go(func() error {
			start := time.Now()
			res := BatchResult{Ref: ref}
			desc, source, err := reg.Resolve(ref)
			if err == nil {
				res.Outcome, err = e.Run(ctx, desc, source)
			}
			res.Err = err
			res.Elapsed = time.Since(start)
			if err != nil {
				e.logger.Warn("design failed", "ref", ref, "error", err)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}
