// Package model defines the analysis model a floating platform design is
// evaluated with, and the ordered lifecycle it goes through:
//
//	Constructed -> UnloadedAnalyzed -> EigenSolved -> CaseAnalyzed
//
// The physics lives behind [Engine]; [Adapter] wraps an engine and enforces
// the lifecycle, so callers only see the [Model] capability:
//
//	m := model.New(engine)
//	_ = m.AnalyzeUnloaded(ctx)
//	_ = m.SolveEigen(ctx)
//	_ = m.AnalyzeCases(ctx, false)
//	w, rao, _ := m.PlatformResponse(0)
//
// A stage whose prerequisite has not run fails with [ErrNotReady]. Load cases
// that fail with [ErrCaseDefinition] are skipped and reported through
// [Adapter.Diagnostics]; every other stage error is fatal.
//
// # Thread Safety
//
// A Model is owned by a single driver and is NOT safe for concurrent use.
package model
