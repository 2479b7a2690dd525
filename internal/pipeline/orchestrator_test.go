package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/factgate/factgate/internal/model"
	"github.com/factgate/factgate/internal/ontology"
	"github.com/factgate/factgate/internal/validate"
)

// scriptedGenerator returns one canned answer per generation call
type scriptedGenerator struct {
	answers       []string
	sourceText    string
	generateCalls int
	generateErr   error
	regenErr      error
	feedbackSeen  []string
	attemptsSeen  []int
}

func (g *scriptedGenerator) Generate(ctx context.Context, question string) (string, string, error) {
	if g.generateErr != nil {
		return "", "", g.generateErr
	}
	g.generateCalls++
	return g.answers[0], g.sourceText, nil
}

func (g *scriptedGenerator) Regenerate(ctx context.Context, question, sourceText, previousAnswer, feedback string, attempt int) (string, error) {
	if g.regenErr != nil {
		return "", g.regenErr
	}
	g.feedbackSeen = append(g.feedbackSeen, feedback)
	g.attemptsSeen = append(g.attemptsSeen, attempt)
	idx := g.generateCalls
	g.generateCalls++
	if idx >= len(g.answers) {
		idx = len(g.answers) - 1
	}
	return g.answers[idx], nil
}

// mapExtractor maps exact answer text to fact sets
type mapExtractor struct {
	byText      map[string]*model.FactSet
	sourceFacts *model.FactSet
	sourceDelay time.Duration
	answerCalls int
	sourceCalls int
	answerErr   error
	sourceErr   error
}

func (e *mapExtractor) ExtractFromAnswer(ctx context.Context, text string) (*model.FactSet, error) {
	if e.answerErr != nil {
		return nil, e.answerErr
	}
	e.answerCalls++
	if fs, ok := e.byText[text]; ok {
		return fs, nil
	}
	return model.EmptyFactSet(), nil
}

func (e *mapExtractor) ExtractFromSource(ctx context.Context, text string) (*model.FactSet, error) {
	if e.sourceDelay > 0 {
		time.Sleep(e.sourceDelay)
	}
	if e.sourceErr != nil {
		return nil, e.sourceErr
	}
	e.sourceCalls++
	if e.sourceFacts != nil {
		return e.sourceFacts, nil
	}
	return model.EmptyFactSet(), nil
}

func typeTriple(sub, class string) model.Assertion {
	return model.Assertion{Subject: sub, Predicate: model.PredicateType, Object: class, Recognized: true}
}

func invalidFacts(entity string) *model.FactSet {
	return model.NewFactSet(
		typeTriple(entity, "SecuredLoan"),
		typeTriple(entity, "UnsecuredLoan"),
	)
}

func validFacts(entity string) *model.FactSet {
	return model.NewFactSet(typeTriple(entity, "Mortgage"))
}

func newOrchestrator(gen *scriptedGenerator, ext *mapExtractor, maxCorrections int) *Orchestrator {
	checker := validate.NewChecker(ontology.Builtin(), false)
	return NewOrchestrator(gen, ext, checker, model.CheckerConfig{MaxCorrections: maxCorrections}, false)
}

func TestRun_AcceptedFirstAttempt(t *testing.T) {
	gen := &scriptedGenerator{answers: []string{"good answer"}, sourceText: "source"}
	ext := &mapExtractor{byText: map[string]*model.FactSet{"good answer": validFacts("Loan_1")}}

	outcome := newOrchestrator(gen, ext, 3).Run(context.Background(), "Who lends?")

	if !outcome.Accepted() {
		t.Fatalf("status = %s, want accepted", outcome.Status)
	}
	if outcome.AttemptIndex != 0 || outcome.AttemptsMade != 1 {
		t.Errorf("AttemptIndex=%d AttemptsMade=%d, want 0 and 1", outcome.AttemptIndex, outcome.AttemptsMade)
	}
	if outcome.Answer != "good answer" {
		t.Errorf("Answer = %q", outcome.Answer)
	}
	if gen.generateCalls != 1 {
		t.Errorf("generation calls = %d, want 1 (no calls after acceptance)", gen.generateCalls)
	}
	if outcome.Facts == nil || outcome.Facts.Len() == 0 {
		t.Error("accepted outcome must carry the validated fact set")
	}
}

func TestRun_AcceptedAfterOneCorrection(t *testing.T) {
	gen := &scriptedGenerator{answers: []string{"bad answer", "fixed answer"}, sourceText: "source"}
	ext := &mapExtractor{byText: map[string]*model.FactSet{
		"bad answer":   invalidFacts("Loan_1"),
		"fixed answer": validFacts("Loan_1"),
	}}

	outcome := newOrchestrator(gen, ext, 3).Run(context.Background(), "Who lends?")

	if !outcome.Accepted() {
		t.Fatalf("status = %s, want accepted", outcome.Status)
	}
	if outcome.AttemptIndex != 1 {
		t.Errorf("AttemptIndex = %d, want 1", outcome.AttemptIndex)
	}
	if outcome.AttemptsMade != 2 {
		t.Errorf("AttemptsMade = %d, want 2", outcome.AttemptsMade)
	}
	if gen.generateCalls != 2 {
		t.Errorf("generation calls = %d, want exactly 2", gen.generateCalls)
	}

	// The rejection verdict's explanation is the regeneration feedback
	if len(gen.feedbackSeen) != 1 || gen.feedbackSeen[0] == "" {
		t.Fatalf("expected one non-empty feedback, got %v", gen.feedbackSeen)
	}
	if gen.attemptsSeen[0] != 1 {
		t.Errorf("regeneration attempt number = %d, want 1", gen.attemptsSeen[0])
	}
}

func TestRun_HardRejectedAfterBudget(t *testing.T) {
	// Every answer extracts to the same inconsistent facts
	gen := &scriptedGenerator{answers: []string{"bad answer"}, sourceText: "source"}
	ext := &mapExtractor{byText: map[string]*model.FactSet{"bad answer": invalidFacts("Loan_1")}}

	maxCorrections := 3
	outcome := newOrchestrator(gen, ext, maxCorrections).Run(context.Background(), "Who lends?")

	if outcome.Status != model.StatusHardRejected {
		t.Fatalf("status = %s, want hard_rejected", outcome.Status)
	}
	if outcome.AttemptsMade != maxCorrections+1 {
		t.Errorf("AttemptsMade = %d, want %d", outcome.AttemptsMade, maxCorrections+1)
	}
	if gen.generateCalls != maxCorrections+1 {
		t.Errorf("generation calls = %d, want %d", gen.generateCalls, maxCorrections+1)
	}
	if ext.answerCalls != maxCorrections+1 {
		t.Errorf("answer extractions = %d, want %d", ext.answerCalls, maxCorrections+1)
	}
	if outcome.Explanation == "" {
		t.Error("hard rejection must carry the final violation report")
	}
	if outcome.Answer != "bad answer" {
		t.Errorf("Answer = %q, want the last rejected answer", outcome.Answer)
	}
	if len(outcome.Attempts) != maxCorrections+1 {
		t.Errorf("attempt records = %d, want %d", len(outcome.Attempts), maxCorrections+1)
	}
}

func TestRun_ZeroCorrections(t *testing.T) {
	gen := &scriptedGenerator{answers: []string{"bad answer"}, sourceText: "source"}
	ext := &mapExtractor{byText: map[string]*model.FactSet{"bad answer": invalidFacts("Loan_1")}}

	outcome := newOrchestrator(gen, ext, 0).Run(context.Background(), "Who lends?")

	if outcome.Status != model.StatusHardRejected {
		t.Fatalf("status = %s, want hard_rejected", outcome.Status)
	}
	if outcome.AttemptsMade != 1 {
		t.Errorf("AttemptsMade = %d, want 1 (no corrections allowed)", outcome.AttemptsMade)
	}
	if gen.generateCalls != 1 {
		t.Errorf("generation calls = %d, want 1", gen.generateCalls)
	}
}

func TestRun_SourceExtractedOnce(t *testing.T) {
	gen := &scriptedGenerator{answers: []string{"bad answer"}, sourceText: "source"}
	ext := &mapExtractor{
		byText:      map[string]*model.FactSet{"bad answer": invalidFacts("Loan_1")},
		sourceFacts: validFacts("Loan_2"),
	}

	newOrchestrator(gen, ext, 2).Run(context.Background(), "Who lends?")

	if ext.sourceCalls != 1 {
		t.Errorf("source extractions = %d, want 1 regardless of correction rounds", ext.sourceCalls)
	}
}

func TestRun_SourceExtractionTimedSeparately(t *testing.T) {
	delay := 30 * time.Millisecond
	gen := &scriptedGenerator{answers: []string{"answer"}, sourceText: "source"}
	ext := &mapExtractor{
		byText:      map[string]*model.FactSet{"answer": validFacts("Loan_1")},
		sourceDelay: delay,
	}

	outcome := newOrchestrator(gen, ext, 3).Run(context.Background(), "q")

	if outcome.SourceExtractTime < delay {
		t.Errorf("SourceExtractTime = %v, want at least %v", outcome.SourceExtractTime, delay)
	}
	if len(outcome.Attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(outcome.Attempts))
	}
	if outcome.Attempts[0].ExtractTime >= delay {
		t.Errorf("attempt 0 ExtractTime = %v, must not include the one-time source extraction", outcome.Attempts[0].ExtractTime)
	}
}

func TestRun_MergesSourceFacts(t *testing.T) {
	gen := &scriptedGenerator{answers: []string{"answer"}, sourceText: "source"}
	ext := &mapExtractor{
		byText:      map[string]*model.FactSet{"answer": validFacts("Loan_1")},
		sourceFacts: validFacts("Loan_2"),
	}

	outcome := newOrchestrator(gen, ext, 0).Run(context.Background(), "q")

	if !outcome.Accepted() {
		t.Fatalf("status = %s", outcome.Status)
	}
	if outcome.Facts.Len() != 2 {
		t.Errorf("merged facts = %d, want 2 (answer + source)", outcome.Facts.Len())
	}
	if !outcome.Facts.Contains(typeTriple("Loan_2", "Mortgage")) {
		t.Error("source facts missing from the checked set")
	}
}

func TestRun_GenerateFailure(t *testing.T) {
	gen := &scriptedGenerator{generateErr: errors.New("api down")}
	ext := &mapExtractor{}

	outcome := newOrchestrator(gen, ext, 3).Run(context.Background(), "q")

	if outcome.Status != model.StatusFailed {
		t.Fatalf("status = %s, want failed", outcome.Status)
	}
	var perr *PipelineError
	if !errors.As(outcome.Err, &perr) {
		t.Fatalf("Err = %T, want PipelineError", outcome.Err)
	}
	if perr.Stage != StageGenerate || perr.Attempt != 0 {
		t.Errorf("stage=%s attempt=%d, want generate/0", perr.Stage, perr.Attempt)
	}
}

func TestRun_ExtractFailure(t *testing.T) {
	gen := &scriptedGenerator{answers: []string{"answer"}, sourceText: "source"}
	ext := &mapExtractor{answerErr: errors.New("malformed JSON")}

	outcome := newOrchestrator(gen, ext, 3).Run(context.Background(), "q")

	if outcome.Status != model.StatusFailed {
		t.Fatalf("status = %s, want failed", outcome.Status)
	}
	var perr *PipelineError
	if !errors.As(outcome.Err, &perr) {
		t.Fatalf("Err = %T, want PipelineError", outcome.Err)
	}
	if perr.Stage != StageExtract {
		t.Errorf("stage = %s, want extract", perr.Stage)
	}
}

func TestRun_CheckFailureNotRetried(t *testing.T) {
	gen := &scriptedGenerator{answers: []string{"answer"}, sourceText: "source"}
	ext := &mapExtractor{byText: map[string]*model.FactSet{"answer": validFacts("Loan_1")}}

	failing := &failingReasoner{}
	checker := validate.NewCheckerWithReasoner(ontology.Builtin(), failing)
	orch := NewOrchestrator(gen, ext, checker, model.CheckerConfig{MaxCorrections: 3}, false)

	outcome := orch.Run(context.Background(), "q")

	if outcome.Status != model.StatusFailed {
		t.Fatalf("status = %s, want failed", outcome.Status)
	}
	if !errors.Is(outcome.Err, validate.ErrCheckerUnavailable) {
		t.Errorf("Err must wrap ErrCheckerUnavailable, got %v", outcome.Err)
	}
	var perr *PipelineError
	if !errors.As(outcome.Err, &perr) {
		t.Fatalf("Err = %T, want PipelineError", outcome.Err)
	}
	if perr.Stage != StageCheck {
		t.Errorf("stage = %s, want check", perr.Stage)
	}
	if failing.calls != 1 {
		t.Errorf("reasoner calls = %d, want 1 (checker failures are not retried)", failing.calls)
	}
	if gen.generateCalls != 1 {
		t.Errorf("generation calls = %d, want 1", gen.generateCalls)
	}
}

type failingReasoner struct {
	calls int
}

func (r *failingReasoner) CheckDisjointness(ctx context.Context, fs *model.FactSet, m *ontology.ConstraintModel) ([]model.Violation, error) {
	r.calls++
	return nil, fmt.Errorf("reasoner unreachable")
}

// countingReasoner counts check calls while delegating to the real
// disjointness evaluation
type countingReasoner struct {
	calls int
}

func (r *countingReasoner) CheckDisjointness(ctx context.Context, fs *model.FactSet, m *ontology.ConstraintModel) ([]model.Violation, error) {
	r.calls++
	local := validate.NewChecker(m, false)
	verdict, err := local.Check(ctx, fs)
	if err != nil {
		return nil, err
	}
	var out []model.Violation
	for _, v := range verdict.Violations {
		if v.Kind == model.ViolationDisjointness {
			out = append(out, v)
		}
	}
	return out, nil
}

func TestRun_GenerationMatchesChecks(t *testing.T) {
	// Every generated answer must be checked exactly once, for both the
	// accepted and the exhausted case.
	cases := []struct {
		name    string
		answers []string
		facts   map[string]*model.FactSet
		budget  int
	}{
		{
			name:    "accepted second attempt",
			answers: []string{"a0", "a1"},
			facts: map[string]*model.FactSet{
				"a0": invalidFacts("L"),
				"a1": validFacts("L"),
			},
			budget: 3,
		},
		{
			name:    "exhausted budget",
			answers: []string{"a0"},
			facts:   map[string]*model.FactSet{"a0": invalidFacts("L")},
			budget:  2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &scriptedGenerator{answers: tc.answers, sourceText: "source"}
			ext := &mapExtractor{byText: tc.facts}
			reasoner := &countingReasoner{}
			checker := validate.NewCheckerWithReasoner(ontology.Builtin(), reasoner)
			orch := NewOrchestrator(gen, ext, checker, model.CheckerConfig{MaxCorrections: tc.budget}, false)

			orch.Run(context.Background(), "q")

			if gen.generateCalls != reasoner.calls {
				t.Errorf("generation calls %d != check calls %d", gen.generateCalls, reasoner.calls)
			}
		})
	}
}

func TestPipelineError_Unwrap(t *testing.T) {
	inner := errors.New("socket closed")
	err := &PipelineError{Stage: StageGenerate, Attempt: 2, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("PipelineError must unwrap to its cause")
	}
	msg := err.Error()
	if !strings.Contains(msg, "generate") || !strings.Contains(msg, "attempt 2") {
		t.Errorf("message %q must name stage and attempt", msg)
	}
}
