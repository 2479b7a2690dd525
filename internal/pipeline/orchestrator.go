package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/factgate/factgate/internal/extract"
	"github.com/factgate/factgate/internal/generate"
	"github.com/factgate/factgate/internal/model"
	"github.com/factgate/factgate/internal/validate"
)

// Orchestrator drives the validation and correction loop for one question:
// generate an answer, extract facts from answer and source, merge, check,
// and on inconsistency feed the verdict back into regeneration until the
// answer is accepted or the correction budget is exhausted.
//
// The orchestrator owns the attempt sequence and the final decision. It is
// stateless between Run calls and safe for concurrent use; the constraint
// model behind the checker is shared read-only.
type Orchestrator struct {
	generator      generate.Generator
	extractor      extract.Extractor
	checker        *validate.Checker
	maxCorrections int
	verbose        bool
}

// NewOrchestrator assembles the loop. maxCorrections is the number of
// correction rounds after the initial attempt; total attempts are
// maxCorrections+1.
func NewOrchestrator(gen generate.Generator, ext extract.Extractor, checker *validate.Checker, cfg model.CheckerConfig, verbose bool) *Orchestrator {
	maxCorrections := cfg.MaxCorrections
	if maxCorrections < 0 {
		maxCorrections = 0
	}
	return &Orchestrator{
		generator:      gen,
		extractor:      ext,
		checker:        checker,
		maxCorrections: maxCorrections,
		verbose:        verbose,
	}
}

// Run processes one question to a terminal outcome. External-call failures
// surface as a Failed outcome carrying a PipelineError; an inconsistent
// answer is not a failure and drives the correction loop instead.
func (o *Orchestrator) Run(ctx context.Context, question string) *model.Outcome {
	outcome := &model.Outcome{Question: question}

	o.logf("Generating initial answer...\n")

	genStart := time.Now()
	answer, sourceText, err := o.generator.Generate(ctx, question)
	genTime := time.Since(genStart)
	if err != nil {
		return o.fail(outcome, StageGenerate, 0, err)
	}

	// Source facts are extracted once and held fixed for the whole run;
	// only the answer side changes across correction rounds.
	extractStart := time.Now()
	sourceFacts, err := o.extractor.ExtractFromSource(ctx, sourceText)
	outcome.SourceExtractTime = time.Since(extractStart)
	if err != nil {
		outcome.AttemptsMade = 1
		return o.fail(outcome, StageExtract, 0, err)
	}

	for attempt := 0; attempt <= o.maxCorrections; attempt++ {
		record := model.AttemptRecord{
			Attempt:      attempt,
			Answer:       answer,
			GenerateTime: genTime,
		}

		extractStart = time.Now()
		answerFacts, err := o.extractor.ExtractFromAnswer(ctx, answer)
		record.ExtractTime = time.Since(extractStart)
		if err != nil {
			outcome.Attempts = append(outcome.Attempts, record)
			outcome.AttemptsMade = attempt + 1
			return o.fail(outcome, StageExtract, attempt, err)
		}

		merged := model.Merge(answerFacts, sourceFacts)
		record.Facts = merged

		checkStart := time.Now()
		verdict, err := o.checker.Check(ctx, merged)
		record.CheckTime = time.Since(checkStart)
		if err != nil {
			outcome.Attempts = append(outcome.Attempts, record)
			outcome.AttemptsMade = attempt + 1
			return o.fail(outcome, StageCheck, attempt, err)
		}
		record.Verdict = verdict

		outcome.Attempts = append(outcome.Attempts, record)
		outcome.AttemptsMade = attempt + 1

		if verdict.Valid {
			o.logf("Answer accepted at attempt %d (%d assertions checked)\n", attempt, verdict.Checked)
			outcome.Status = model.StatusAccepted
			outcome.Answer = answer
			outcome.AttemptIndex = attempt
			outcome.Facts = merged
			return outcome
		}

		o.logf("Attempt %d rejected: %d violation(s)\n", attempt, len(verdict.Violations))

		if attempt == o.maxCorrections {
			// Correction budget exhausted
			outcome.Status = model.StatusHardRejected
			outcome.Answer = answer
			outcome.Facts = merged
			outcome.Explanation = verdict.Explanation
			return outcome
		}

		o.logf("Requesting corrected answer (correction %d of %d)...\n", attempt+1, o.maxCorrections)

		genStart = time.Now()
		answer, err = o.generator.Regenerate(ctx, question, sourceText, answer, verdict.Explanation, attempt+1)
		genTime = time.Since(genStart)
		if err != nil {
			outcome.AttemptsMade = attempt + 2
			return o.fail(outcome, StageGenerate, attempt+1, err)
		}
	}

	// Unreachable: the loop always returns on the final attempt
	outcome.Status = model.StatusFailed
	outcome.Err = fmt.Errorf("correction loop exited without a terminal state")
	return outcome
}

func (o *Orchestrator) fail(outcome *model.Outcome, stage Stage, attempt int, err error) *model.Outcome {
	outcome.Status = model.StatusFailed
	outcome.Err = &PipelineError{Stage: stage, Attempt: attempt, Err: err}
	if outcome.AttemptsMade == 0 {
		outcome.AttemptsMade = attempt + 1
	}
	return outcome
}

func (o *Orchestrator) logf(format string, args ...interface{}) {
	if o.verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
