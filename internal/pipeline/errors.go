package pipeline

import "fmt"

// Stage identifies which pipeline stage failed
type Stage string

const (
	StageGenerate Stage = "generate"
	StageExtract  Stage = "extract"
	StageCheck    Stage = "check"
)

// PipelineError means a stage could not produce output at all, as opposed to
// the logic completing and finding the answer inconsistent. It is fatal to
// the current question and never retried here: retry-on-transient-failure
// policy belongs to the external collaborators, not the correction loop,
// otherwise the fixed attempt budget becomes ambiguous.
type PipelineError struct {
	Stage   Stage
	Attempt int
	Err     error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s failed at attempt %d: %v", e.Stage, e.Attempt, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
