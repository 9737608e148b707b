package model

import (
	"errors"
	"fmt"
)

// Domain errors for model operations.
var (
	// ErrConvergence indicates the static equilibrium could not be found.
	ErrConvergence = errors.New("model: equilibrium did not converge")

	// ErrSingularSystem indicates a degenerate mass or stiffness matrix.
	ErrSingularSystem = errors.New("model: singular system matrix")

	// ErrCaseDefinition indicates a load case references undefined or invalid
	// environmental parameters.
	ErrCaseDefinition = errors.New("model: invalid load case definition")

	// ErrNotReady indicates a stage or result was requested before its
	// prerequisite stage completed.
	ErrNotReady = errors.New("model: prerequisite stage not complete")

	// ErrOutOfOrder indicates an earlier stage was invoked after the model
	// had already moved past it.
	ErrOutOfOrder = errors.New("model: stage invoked out of order")

	// ErrPlatformIndex indicates a platform index outside the model.
	ErrPlatformIndex = errors.New("model: platform index out of range")
)

// StageError wraps a fatal error with the pipeline stage it came from.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// CaseError wraps an error raised while running one load case.
type CaseError struct {
	Index int
	Name  string
	Err   error
}

func (e *CaseError) Error() string {
	return fmt.Sprintf("case %d (%s): %v", e.Index+1, e.Name, e.Err)
}

func (e *CaseError) Unwrap() error {
	return e.Err
}
