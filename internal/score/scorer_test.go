package score

import (
	"errors"
	"testing"

	"github.com/factgate/factgate/internal/model"
)

func acceptedOutcome(attemptIndex int) *model.Outcome {
	attempts := make([]model.AttemptRecord, 0, attemptIndex+1)
	for i := 0; i < attemptIndex; i++ {
		attempts = append(attempts, model.AttemptRecord{
			Attempt: i,
			Verdict: &model.Verdict{
				Violations: []model.Violation{{Kind: model.ViolationDisjointness}},
			},
		})
	}
	attempts = append(attempts, model.AttemptRecord{
		Attempt: attemptIndex,
		Verdict: &model.Verdict{Valid: true},
	})
	return &model.Outcome{
		Status:       model.StatusAccepted,
		AttemptIndex: attemptIndex,
		AttemptsMade: attemptIndex + 1,
		Attempts:     attempts,
	}
}

func rejectedOutcome(attempts int, kind model.ViolationKind) *model.Outcome {
	records := make([]model.AttemptRecord, attempts)
	for i := range records {
		records[i] = model.AttemptRecord{
			Attempt: i,
			Verdict: &model.Verdict{
				Violations: []model.Violation{{Kind: kind}},
			},
		}
	}
	return &model.Outcome{
		Status:       model.StatusHardRejected,
		AttemptsMade: attempts,
		Attempts:     records,
	}
}

func TestSummarize_Counts(t *testing.T) {
	outcomes := []*model.Outcome{
		acceptedOutcome(0),
		acceptedOutcome(2),
		rejectedOutcome(4, model.ViolationRoleConstraint),
		{Status: model.StatusFailed, Err: errors.New("boom")},
	}

	sum := NewScorer().Summarize(outcomes)

	if sum.Total != 4 {
		t.Errorf("Total = %d, want 4", sum.Total)
	}
	if sum.Accepted != 2 || sum.HardRejected != 1 || sum.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", sum.Accepted, sum.HardRejected, sum.Failed)
	}
	if sum.CorrectedAccepts != 1 {
		t.Errorf("CorrectedAccepts = %d, want 1", sum.CorrectedAccepts)
	}
	// 2 accepted of 3 decided
	if sum.AcceptanceRate < 0.66 || sum.AcceptanceRate > 0.67 {
		t.Errorf("AcceptanceRate = %f, want 2/3", sum.AcceptanceRate)
	}
}

func TestSummarize_ViolationCounts(t *testing.T) {
	outcomes := []*model.Outcome{
		acceptedOutcome(2), // two disjointness violations before acceptance
		rejectedOutcome(3, model.ViolationRoleConstraint),
	}

	sum := NewScorer().Summarize(outcomes)

	if got := sum.ViolationCounts[model.ViolationDisjointness]; got != 2 {
		t.Errorf("disjointness count = %d, want 2", got)
	}
	if got := sum.ViolationCounts[model.ViolationRoleConstraint]; got != 3 {
		t.Errorf("role_constraint count = %d, want 3", got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := NewScorer().Summarize(nil)
	if sum.Total != 0 || sum.AcceptanceRate != 0 || sum.MeanAttempts != 0 {
		t.Errorf("unexpected non-zero summary: %+v", sum)
	}
}

func TestSummarize_Signals(t *testing.T) {
	outcomes := []*model.Outcome{
		acceptedOutcome(1),
		rejectedOutcome(4, model.ViolationDisjointness),
		{Status: model.StatusFailed, Err: errors.New("boom")},
	}

	sum := NewScorer().Summarize(outcomes)

	types := make(map[string]Signal)
	for _, sig := range sum.Signals {
		types[sig.Type] = sig
	}

	if _, ok := types[SignalAcceptance]; !ok {
		t.Error("missing acceptance signal")
	}
	if _, ok := types[SignalCorrection]; !ok {
		t.Error("missing correction signal")
	}
	if _, ok := types[SignalViolationMix]; !ok {
		t.Error("missing violation mix signal")
	}
	health, ok := types[SignalPipelineHealth]
	if !ok {
		t.Fatal("missing pipeline health signal")
	}
	if health.Severity != SeverityCritical {
		t.Errorf("health severity = %s, want critical (1/3 failed)", health.Severity)
	}
}

func TestSummarize_VocabularyGapSignal(t *testing.T) {
	o := acceptedOutcome(0)
	o.Attempts[0].Verdict.Unrecognized = 2

	sum := NewScorer().Summarize([]*model.Outcome{o})

	found := false
	for _, sig := range sum.Signals {
		if sig.Type == SignalVocabularyGap {
			found = true
			if sig.Severity != SeverityWarning {
				t.Errorf("vocabulary gap severity = %s, want warning", sig.Severity)
			}
		}
	}
	if !found {
		t.Error("missing vocabulary gap signal")
	}
}
