package model

import "time"

// OutcomeStatus is the terminal state of one processed question
type OutcomeStatus string

const (
	StatusAccepted     OutcomeStatus = "accepted"
	StatusHardRejected OutcomeStatus = "hard_rejected"
	StatusFailed       OutcomeStatus = "failed"
)

// Outcome is the result of running one question through the correction loop.
//
// Accepted: Answer holds the accepted text, AttemptIndex the round at which
// it passed, Facts the merged FactSet that validated.
//
// HardRejected: Answer holds the last rejected text, AttemptsMade the total
// attempts spent, Explanation the final verdict report.
//
// Failed: Err carries the pipeline error (stage and attempt included); the
// consistency logic did not get to decide.
type Outcome struct {
	Status       OutcomeStatus   `json:"status"`
	Question     string          `json:"question"`
	Answer       string          `json:"answer,omitempty"`
	AttemptIndex int             `json:"attempt_index"` // Round at which acceptance occurred (0-based)
	AttemptsMade int             `json:"attempts_made"` // Total generation attempts performed
	Facts        *FactSet        `json:"-"`
	Explanation  string          `json:"explanation,omitempty"`
	Attempts     []AttemptRecord `json:"attempts,omitempty"`

	// SourceExtractTime is the one-time cost of extracting source facts,
	// kept apart from the per-attempt answer-extraction timings.
	SourceExtractTime time.Duration `json:"source_extract_ms"`

	Err error `json:"-"`
}

// Accepted reports whether the answer passed validation.
func (o *Outcome) Accepted() bool {
	return o.Status == StatusAccepted
}
