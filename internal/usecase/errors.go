package usecase

import (
	"fmt"

	"github.com/artummeti/lc-vid-generator/internal/types"
)

// Stage names the step of the per-problem pipeline that failed.
type Stage string

const (
	StageNarration Stage = "narration"
	StageSpeech    Stage = "speech"
	StageRender    Stage = "render"
	StageSequence  Stage = "sequence"
	StageOutput    Stage = "output"
	StageUnknown   Stage = "unknown"
)

// ContentFetchError aborts the whole batch.
type ContentFetchError struct {
	Err error
}

func (e *ContentFetchError) Error() string { return "could not fetch list of problems: " + e.Err.Error() }

func (e *ContentFetchError) Unwrap() error { return e.Err }

// ProblemError is any failure inside one problem's pipeline.
type ProblemError struct {
	Problem types.ProblemRef
	Stage   Stage
	Err     error
}

func (e *ProblemError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Problem.Slug, e.Stage, e.Err)
}

func (e *ProblemError) Unwrap() error { return e.Err }
