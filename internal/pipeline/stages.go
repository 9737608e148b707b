package pipeline

import (
	"context"

	"github.com/san-kum/floatsim/internal/model"
)

// Stage names as reported in errors and logs.
const (
	StageUnloaded = "analyze-unloaded"
	StageEigen    = "solve-eigen"
	StageCases    = "analyze-cases"
)

type UnloadedStage struct{}

func (UnloadedStage) Name() string { return StageUnloaded }

func (UnloadedStage) Run(ctx context.Context, m model.Model) error {
	return m.AnalyzeUnloaded(ctx)
}

type EigenStage struct{}

func (EigenStage) Name() string { return StageEigen }

func (EigenStage) Run(ctx context.Context, m model.Model) error {
	return m.SolveEigen(ctx)
}

// CaseStage runs every load case. Display only raises the detail logged
// per case.
type CaseStage struct {
	Display bool
}

func (CaseStage) Name() string { return StageCases }

func (s CaseStage) Run(ctx context.Context, m model.Model) error {
	return m.AnalyzeCases(ctx, s.Display)
}
