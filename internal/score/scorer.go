package score

import (
	"fmt"
	"sort"

	"github.com/factgate/factgate/internal/model"
)

// Severity levels for diagnostic signals
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Signal types
const (
	SignalAcceptance     = "acceptance_rate"
	SignalCorrection     = "correction_effectiveness"
	SignalViolationMix   = "violation_mix"
	SignalPipelineHealth = "pipeline_health"
	SignalVocabularyGap  = "vocabulary_gap"
)

// Signal is one diagnostic observation over a batch of outcomes
type Signal struct {
	Type        string                 `json:"type"`
	Severity    string                 `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// Summary aggregates the outcomes of a batch run
type Summary struct {
	Total        int `json:"total"`
	Accepted     int `json:"accepted"`
	HardRejected int `json:"hard_rejected"`
	Failed       int `json:"failed"`

	// Accepted answers that needed at least one correction round
	CorrectedAccepts int     `json:"corrected_accepts"`
	AcceptanceRate   float64 `json:"acceptance_rate"`
	MeanAttempts     float64 `json:"mean_attempts"`

	ViolationCounts map[model.ViolationKind]int `json:"violation_counts,omitempty"`
	Signals         []Signal                    `json:"signals,omitempty"`
}

// Scorer evaluates batch outcomes and generates diagnostic signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Summarize aggregates a batch of outcomes into counts and signals
func (s *Scorer) Summarize(outcomes []*model.Outcome) Summary {
	sum := Summary{
		Total:           len(outcomes),
		ViolationCounts: make(map[model.ViolationKind]int),
	}

	totalAttempts := 0
	for _, o := range outcomes {
		totalAttempts += o.AttemptsMade

		switch o.Status {
		case model.StatusAccepted:
			sum.Accepted++
			if o.AttemptIndex > 0 {
				sum.CorrectedAccepts++
			}
		case model.StatusHardRejected:
			sum.HardRejected++
		case model.StatusFailed:
			sum.Failed++
		}

		for _, a := range o.Attempts {
			if a.Verdict == nil {
				continue
			}
			for _, v := range a.Verdict.Violations {
				sum.ViolationCounts[v.Kind]++
			}
		}
	}

	if sum.Total > 0 {
		decided := sum.Accepted + sum.HardRejected
		if decided > 0 {
			sum.AcceptanceRate = float64(sum.Accepted) / float64(decided)
		}
		sum.MeanAttempts = float64(totalAttempts) / float64(sum.Total)
	}

	sum.Signals = s.signals(sum, outcomes)
	return sum
}

func (s *Scorer) signals(sum Summary, outcomes []*model.Outcome) []Signal {
	var signals []Signal

	signals = append(signals, s.acceptanceSignal(sum))

	if sig := s.correctionSignal(sum); sig.Type != "" {
		signals = append(signals, sig)
	}
	if sig := s.violationSignal(sum); sig.Type != "" {
		signals = append(signals, sig)
	}
	if sig := s.healthSignal(sum); sig.Type != "" {
		signals = append(signals, sig)
	}
	if sig := s.vocabularySignal(outcomes); sig.Type != "" {
		signals = append(signals, sig)
	}

	return signals
}

// acceptanceSignal reports the share of decided questions that passed the gate
func (s *Scorer) acceptanceSignal(sum Summary) Signal {
	severity := SeverityInfo
	if sum.AcceptanceRate < 0.5 {
		severity = SeverityCritical
	} else if sum.AcceptanceRate < 0.8 {
		severity = SeverityWarning
	}

	return Signal{
		Type:        SignalAcceptance,
		Severity:    severity,
		Description: fmt.Sprintf("Acceptance rate: %.0f%% (%d/%d decided)", sum.AcceptanceRate*100, sum.Accepted, sum.Accepted+sum.HardRejected),
		Data: map[string]interface{}{
			"accepted":      sum.Accepted,
			"hard_rejected": sum.HardRejected,
			"rate":          sum.AcceptanceRate,
		},
	}
}

// correctionSignal reports how often the feedback loop rescued an answer
func (s *Scorer) correctionSignal(sum Summary) Signal {
	if sum.CorrectedAccepts == 0 && sum.HardRejected == 0 {
		return Signal{}
	}

	// Of the answers whose first attempt failed the gate, how many were
	// eventually corrected into acceptance.
	retried := sum.CorrectedAccepts + sum.HardRejected
	rescued := float64(sum.CorrectedAccepts) / float64(retried)

	severity := SeverityInfo
	if rescued < 0.3 {
		severity = SeverityWarning
	}

	return Signal{
		Type:        SignalCorrection,
		Severity:    severity,
		Description: fmt.Sprintf("Correction loop rescued %d of %d initially-inconsistent answers", sum.CorrectedAccepts, retried),
		Data: map[string]interface{}{
			"corrected_accepts": sum.CorrectedAccepts,
			"hard_rejected":     sum.HardRejected,
			"rescue_rate":       rescued,
		},
	}
}

// violationSignal reports which constraint kinds dominate
func (s *Scorer) violationSignal(sum Summary) Signal {
	if len(sum.ViolationCounts) == 0 {
		return Signal{}
	}

	kinds := make([]string, 0, len(sum.ViolationCounts))
	total := 0
	for k, n := range sum.ViolationCounts {
		kinds = append(kinds, string(k))
		total += n
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	data := make(map[string]interface{}, len(kinds)+1)
	for _, k := range kinds {
		n := sum.ViolationCounts[model.ViolationKind(k)]
		parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		data[k] = n
	}
	data["total"] = total

	desc := "Violations by kind: "
	for i, p := range parts {
		if i > 0 {
			desc += ", "
		}
		desc += p
	}

	return Signal{
		Type:        SignalViolationMix,
		Severity:    SeverityInfo,
		Description: desc,
		Data:        data,
	}
}

// healthSignal flags pipeline failures, which are operational problems
// rather than consistency verdicts
func (s *Scorer) healthSignal(sum Summary) Signal {
	if sum.Failed == 0 {
		return Signal{}
	}

	severity := SeverityWarning
	if sum.Total > 0 && float64(sum.Failed)/float64(sum.Total) > 0.2 {
		severity = SeverityCritical
	}

	return Signal{
		Type:        SignalPipelineHealth,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d questions failed in the pipeline", sum.Failed, sum.Total),
		Data: map[string]interface{}{
			"failed": sum.Failed,
			"total":  sum.Total,
		},
	}
}

// vocabularySignal flags batches where extraction often falls outside the
// vocabulary, which weakens the checks without failing them
func (s *Scorer) vocabularySignal(outcomes []*model.Outcome) Signal {
	unrecognized := 0
	checks := 0
	for _, o := range outcomes {
		for _, a := range o.Attempts {
			if a.Verdict == nil {
				continue
			}
			checks++
			unrecognized += a.Verdict.Unrecognized
		}
	}
	if checks == 0 || unrecognized == 0 {
		return Signal{}
	}

	return Signal{
		Type:        SignalVocabularyGap,
		Severity:    SeverityWarning,
		Description: fmt.Sprintf("%d assertion(s) referenced vocabulary the checker does not know", unrecognized),
		Data: map[string]interface{}{
			"unrecognized": unrecognized,
			"checks":       checks,
		},
	}
}
