package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/factgate/factgate/internal/model"
)

// Runner defines the interface for processing a single question
type Runner interface {
	Run(ctx context.Context, question string) *model.Outcome
}

// QuestionJob represents one question to process
type QuestionJob struct {
	Question string
	Runner   Runner
}

// Execute executes the question job
func (j *QuestionJob) Execute(ctx context.Context) Result {
	outcome := j.Runner.Run(ctx, j.Question)
	return &QuestionResult{
		Question: j.Question,
		Outcome:  outcome,
	}
}

// QuestionResult represents the result of a question job
type QuestionResult struct {
	Question string
	Outcome  *model.Outcome
}

// GetError returns the pipeline error if the run failed
func (r *QuestionResult) GetError() error {
	if r.Outcome != nil && r.Outcome.Status == model.StatusFailed {
		return r.Outcome.Err
	}
	return nil
}

// BatchProcessor processes multiple independent questions concurrently.
// Questions share only the read-only constraint model, so no coordination
// beyond the pool is needed.
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessQuestions processes multiple questions concurrently
func (b *BatchProcessor) ProcessQuestions(ctx context.Context, questions []string) []*QuestionResult {
	if len(questions) == 0 {
		return []*QuestionResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, q := range questions {
		pool.Submit(&QuestionJob{
			Question: q,
			Runner:   b.runner,
		})
	}

	results := pool.Wait()

	questionResults := make([]*QuestionResult, len(results))
	for i, result := range results {
		questionResults[i] = result.(*QuestionResult)
	}

	return questionResults
}

// ProcessFile reads questions from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QuestionResult, error) {
	questions, err := ReadQuestionsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}

	return b.ProcessQuestions(ctx, questions), nil
}

// ReadQuestionsFromFile reads questions from a file (one per line)
func ReadQuestionsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var questions []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			questions = append(questions, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return questions, nil
}
