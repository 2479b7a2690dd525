package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/factgate/factgate/internal/llm"
	"github.com/factgate/factgate/internal/model"
)

const answerSystemPrompt = "You are a financial analyst assistant answering questions about loan documents."

const answerPromptTemplate = `Use the following context to answer the question.

Context:
%s

Question: %s

Instructions:
- Provide a clear, concise answer based on the context
- If the answer is not in the context, say "I don't have enough information to answer this question."
- Focus on factual information about loans, lenders, borrowers, and their relationships
- Be specific about party names, amounts, and loan types

Answer:`

const correctionPromptTemplate = `Your previous answer was rejected because it contained logical inconsistencies with respect to a formal loan vocabulary.

Context (from the original documents):
%s

Question: %s

Your previous answer (REJECTED - attempt %d):
%s

Validation feedback:
%s

Instructions:
- Rewrite your answer so that it is logically consistent with the loan vocabulary
- Fix the specific inconsistencies described in the validation feedback
- Do NOT introduce new facts that are not supported by the context
- Keep the answer factual, concise, and based on the context provided
- If the context genuinely contains contradictory information, state that clearly rather than guessing

Corrected answer:`

// Generator produces answers from a corpus. Regenerate reuses the original
// source text so correction rounds never drift to different retrievals.
type Generator interface {
	// Generate answers the question and returns the supporting source text
	Generate(ctx context.Context, question string) (answer, sourceText string, err error)

	// Regenerate produces a corrected answer from validation feedback
	Regenerate(ctx context.Context, question, sourceText, previousAnswer, feedback string, attempt int) (string, error)
}

// LLMGenerator implements Generator with term-overlap retrieval over local
// document chunks and LLM completion.
type LLMGenerator struct {
	provider  llm.Provider
	retriever *Retriever
	cfg       model.GeneratorConfig
}

// NewLLMGenerator creates a generator over pre-loaded chunks
func NewLLMGenerator(provider llm.Provider, chunks []Chunk, cfg model.GeneratorConfig) *LLMGenerator {
	return &LLMGenerator{
		provider:  provider,
		retriever: NewRetriever(chunks, cfg.TopK),
		cfg:       cfg,
	}
}

// Generate retrieves context and produces an answer
func (g *LLMGenerator) Generate(ctx context.Context, question string) (string, string, error) {
	retrieved := g.retriever.Retrieve(question)
	sourceText := joinChunks(retrieved)

	prompt := fmt.Sprintf(answerPromptTemplate, sourceText, question)

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		System:      answerSystemPrompt,
		Prompt:      prompt,
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		return "", "", fmt.Errorf("generate answer: %w", err)
	}

	return resp.Text, sourceText, nil
}

// Regenerate produces a corrected answer using the original source text and
// the validator's feedback. The attempt number is 1-based in the prompt.
func (g *LLMGenerator) Regenerate(ctx context.Context, question, sourceText, previousAnswer, feedback string, attempt int) (string, error) {
	prompt := fmt.Sprintf(correctionPromptTemplate, sourceText, question, attempt, previousAnswer, feedback)

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		System:      answerSystemPrompt,
		Prompt:      prompt,
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("regenerate answer (attempt %d): %w", attempt, err)
	}

	return resp.Text, nil
}

func joinChunks(chunks []Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n\n")
}
