package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/factgate/factgate/internal/llm"
	"github.com/factgate/factgate/internal/model"
	"github.com/factgate/factgate/internal/ontology"
)

// Extractor turns free text into a FactSet of typed assertions. Finding no
// assertions yields an empty FactSet, not an error; an ExtractionError means
// the underlying call failed structurally.
type Extractor interface {
	ExtractFromAnswer(ctx context.Context, text string) (*model.FactSet, error)
	ExtractFromSource(ctx context.Context, text string) (*model.FactSet, error)
}

// ExtractionError indicates the extraction call could not produce output at
// all (API failure, malformed response). It is never used for the benign
// "nothing found" case.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// rawTriple is the wire shape the extraction model returns
type rawTriple struct {
	Sub     string `json:"sub"`
	Pred    string `json:"pred"`
	Obj     string `json:"obj"`
	SubType string `json:"sub_type"`
	ObjType string `json:"obj_type"`
}

type extractionPayload struct {
	Triples []rawTriple `json:"triples"`
}

// LLMExtractor extracts vocabulary-mapped triples using an LLM in JSON mode.
// The system prompt is rendered once from the loaded constraint model.
type LLMExtractor struct {
	provider    llm.Provider
	constraints *ontology.ConstraintModel
	systemMsg   string
	modelName   string
	maxTokens   int
}

// NewLLMExtractor creates an extractor bound to the given provider and
// constraint model.
func NewLLMExtractor(provider llm.Provider, constraints *ontology.ConstraintModel, cfg model.ExtractorConfig) *LLMExtractor {
	return &LLMExtractor{
		provider:    provider,
		constraints: constraints,
		systemMsg:   ontology.ExtractionPrompt(constraints),
		modelName:   cfg.Model,
		maxTokens:   cfg.MaxTokens,
	}
}

// ExtractFromAnswer extracts assertions from a generated answer.
func (e *LLMExtractor) ExtractFromAnswer(ctx context.Context, text string) (*model.FactSet, error) {
	return e.extract(ctx, text)
}

// ExtractFromSource extracts assertions from supporting source text. HTML
// markup is stripped first; source chunks often come from rendered pages.
func (e *LLMExtractor) ExtractFromSource(ctx context.Context, text string) (*model.FactSet, error) {
	return e.extract(ctx, CleanText(text))
}

func (e *LLMExtractor) extract(ctx context.Context, text string) (*model.FactSet, error) {
	if len(text) == 0 {
		return model.EmptyFactSet(), nil
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System:      e.systemMsg,
		Prompt:      text,
		Model:       e.modelName,
		Temperature: 0, // Deterministic extraction
		MaxTokens:   e.maxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return nil, &ExtractionError{Reason: "completion call", Err: err}
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(resp.Text), &payload); err != nil {
		return nil, &ExtractionError{Reason: "malformed JSON response", Err: err}
	}

	return e.translate(payload.Triples), nil
}

// translate converts raw triples into typed assertions, dropping those with
// missing fields and flagging those whose vocabulary references are unknown.
func (e *LLMExtractor) translate(raw []rawTriple) *model.FactSet {
	assertions := make([]model.Assertion, 0, len(raw))
	for _, t := range raw {
		if t.Sub == "" || t.Pred == "" || t.Obj == "" {
			continue
		}
		assertions = append(assertions, Translate(t.Sub, t.Pred, t.Obj, t.SubType, t.ObjType, e.constraints))
	}
	return model.NewFactSet(assertions...)
}
