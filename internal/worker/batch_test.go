package worker

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/factgate/factgate/internal/model"
)

// stubRunner returns a canned outcome per question
type stubRunner struct {
	fail  bool
	calls int32
}

func (r *stubRunner) Run(ctx context.Context, question string) *model.Outcome {
	atomic.AddInt32(&r.calls, 1)
	if r.fail {
		return &model.Outcome{
			Status:   model.StatusFailed,
			Question: question,
			Err:      errors.New("generation failed"),
		}
	}
	return &model.Outcome{
		Status:       model.StatusAccepted,
		Question:     question,
		Answer:       "The lender is Alice.",
		AttemptsMade: 1,
	}
}

// ctxRunner fails when the caller's context has been cancelled, the way the
// orchestrator does when a provider call is cut short.
type ctxRunner struct {
	cancelled int32
}

func (r *ctxRunner) Run(ctx context.Context, question string) *model.Outcome {
	if err := ctx.Err(); err != nil {
		atomic.AddInt32(&r.cancelled, 1)
		return &model.Outcome{
			Status:   model.StatusFailed,
			Question: question,
			Err:      err,
		}
	}
	return &model.Outcome{
		Status:       model.StatusAccepted,
		Question:     question,
		Answer:       "The lender is Alice.",
		AttemptsMade: 1,
	}
}

func writeQuestionsFile(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "questions")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestBatchProcessor_ProcessQuestions(t *testing.T) {
	runner := &stubRunner{}
	processor := NewBatchProcessor(runner, 2)

	questions := []string{
		"Who is the lender?",
		"Who is the borrower?",
		"What type of loan is this?",
	}

	results := processor.ProcessQuestions(context.Background(), questions)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if atomic.LoadInt32(&runner.calls) != 3 {
		t.Errorf("expected 3 runner calls, got %d", runner.calls)
	}

	seen := make(map[string]bool)
	for _, res := range results {
		if res.GetError() != nil {
			t.Errorf("unexpected error for %q: %v", res.Question, res.GetError())
		}
		if !res.Outcome.Accepted() {
			t.Errorf("expected accepted outcome for %q", res.Question)
		}
		seen[res.Question] = true
	}
	for _, q := range questions {
		if !seen[q] {
			t.Errorf("question %q missing from results", q)
		}
	}
}

func TestBatchProcessor_ProcessQuestions_Empty(t *testing.T) {
	processor := NewBatchProcessor(&stubRunner{}, 2)
	results := processor.ProcessQuestions(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_FailedRunSurfacesError(t *testing.T) {
	processor := NewBatchProcessor(&stubRunner{fail: true}, 1)

	results := processor.ProcessQuestions(context.Background(), []string{"Who lends?"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].GetError() == nil {
		t.Error("expected error from failed outcome, got nil")
	}
}

func TestBatchProcessor_CancelledContextFailsEveryQuestion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &ctxRunner{}
	processor := NewBatchProcessor(runner, 2)

	questions := []string{"Who is the lender?", "Who is the borrower?"}
	results := processor.ProcessQuestions(ctx, questions)

	if len(results) != len(questions) {
		t.Fatalf("expected %d results, got %d", len(questions), len(results))
	}
	for _, res := range results {
		if !errors.Is(res.GetError(), context.Canceled) {
			t.Errorf("%q: expected context.Canceled, got %v", res.Question, res.GetError())
		}
	}
	if got := atomic.LoadInt32(&runner.cancelled); got != int32(len(questions)) {
		t.Errorf("runner observed cancellation %d times, want %d", got, len(questions))
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeQuestionsFile(t, "Who is the lender?\n# comment\n\nWho is the borrower?\n")

	processor := NewBatchProcessor(&stubRunner{}, 2)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&stubRunner{}, 2)
	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadQuestionsFromFile(t *testing.T) {
	path := writeQuestionsFile(t, `Who is the lender?
# comment
Who is the borrower?

What type of loan is this?   `)

	questions, err := ReadQuestionsFromFile(path)
	if err != nil {
		t.Fatalf("ReadQuestionsFromFile failed: %v", err)
	}

	expected := []string{
		"Who is the lender?",
		"Who is the borrower?",
		"What type of loan is this?",
	}
	if len(questions) != len(expected) {
		t.Fatalf("expected %d questions, got %d", len(expected), len(questions))
	}
	for i, q := range questions {
		if q != expected[i] {
			t.Errorf("question %d: expected %q, got %q", i, expected[i], q)
		}
	}
}

func TestReadQuestionsFromFile_Deduplication(t *testing.T) {
	path := writeQuestionsFile(t, strings.Repeat("Who is the lender?\n", 3))

	questions, err := ReadQuestionsFromFile(path)
	if err != nil {
		t.Fatalf("ReadQuestionsFromFile failed: %v", err)
	}
	if len(questions) != 1 {
		t.Errorf("expected 1 question after deduplication, got %d", len(questions))
	}
}
