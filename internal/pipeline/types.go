package pipeline

import (
	"context"
	"time"

	"github.com/san-kum/floatsim/internal/model"
)

// Stage is one step of the analysis pipeline.
type Stage interface {
	Name() string
	Run(ctx context.Context, m model.Model) error
}

// Observer is notified around every stage.
type Observer interface {
	OnStageStart(name string)
	OnStageDone(name string, elapsed time.Duration, err error)
}

// StageTiming records how long a stage ran.
type StageTiming struct {
	Stage   string
	Elapsed time.Duration
}

// Report summarises an Execute call.
type Report struct {
	Stages []StageTiming
	Total  time.Duration
}
