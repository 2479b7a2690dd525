package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/factgate/factgate/internal/model"
)

// renderOutcome prints a human-readable summary of one processed question
func renderOutcome(outcome *model.Outcome) {
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Question: %s\n", outcome.Question)
	fmt.Println(strings.Repeat("=", 70))

	switch outcome.Status {
	case model.StatusAccepted:
		fmt.Printf("\n%s\n\n", outcome.Answer)
		fmt.Printf("✓ ACCEPTED at attempt %d (%d attempt(s), %d fact(s) validated)\n",
			outcome.AttemptIndex, outcome.AttemptsMade, outcome.Facts.Len())

	case model.StatusHardRejected:
		fmt.Printf("\n✗ HARD-REJECTED after %d attempt(s)\n\n", outcome.AttemptsMade)
		fmt.Printf("Last answer:\n%s\n\n", outcome.Answer)
		fmt.Println(outcome.Explanation)

	case model.StatusFailed:
		fmt.Printf("\n✗ PIPELINE FAILURE: %v\n", outcome.Err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "  source extract=%v\n", outcome.SourceExtractTime.Round(1e6))
		for _, a := range outcome.Attempts {
			fmt.Fprintf(os.Stderr, "  attempt %d: generate=%v extract=%v check=%v\n",
				a.Attempt, a.GenerateTime.Round(1e6), a.ExtractTime.Round(1e6), a.CheckTime.Round(1e6))
		}
	}
	fmt.Println()
}

// writeOutcomeJSON dumps outcomes to a JSON file for external evaluation
func writeOutcomeJSON(path string, outcomes []*model.Outcome) error {
	type jsonOutcome struct {
		Status       model.OutcomeStatus `json:"status"`
		Question     string              `json:"question"`
		Answer       string              `json:"answer,omitempty"`
		AttemptIndex int                 `json:"attempt_index"`
		AttemptsMade int                 `json:"attempts_made"`
		Explanation  string              `json:"explanation,omitempty"`
		Error        string              `json:"error,omitempty"`
		Facts        []model.Assertion   `json:"facts,omitempty"`
	}

	out := make([]jsonOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		jo := jsonOutcome{
			Status:       o.Status,
			Question:     o.Question,
			Answer:       o.Answer,
			AttemptIndex: o.AttemptIndex,
			AttemptsMade: o.AttemptsMade,
			Explanation:  o.Explanation,
		}
		if o.Err != nil {
			jo.Error = o.Err.Error()
		}
		if o.Facts != nil {
			jo.Facts = o.Facts.Assertions()
		}
		out = append(out, jo)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal outcomes: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}
