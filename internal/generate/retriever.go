package generate

import (
	"sort"
	"strings"
	"unicode"
)

// Retriever selects the chunks most relevant to a question by term overlap.
// Embedding-based retrieval lives behind the Generator boundary; callers
// only see answer text plus the source text that supported it.
type Retriever struct {
	chunks []Chunk
	topK   int
}

// NewRetriever creates a retriever over the loaded chunks
func NewRetriever(chunks []Chunk, topK int) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{chunks: chunks, topK: topK}
}

// Retrieve returns the top-k chunks by overlap score, in descending score
// order. Ties keep document order for determinism.
func (r *Retriever) Retrieve(question string) []Chunk {
	queryTerms := tokenize(question)
	if len(queryTerms) == 0 {
		if len(r.chunks) <= r.topK {
			return append([]Chunk(nil), r.chunks...)
		}
		return append([]Chunk(nil), r.chunks[:r.topK]...)
	}

	type scored struct {
		chunk Chunk
		score float64
		pos   int
	}

	ranked := make([]scored, 0, len(r.chunks))
	for i, c := range r.chunks {
		ranked = append(ranked, scored{chunk: c, score: overlapScore(queryTerms, tokenize(c.Text)), pos: i})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].pos < ranked[j].pos
	})

	k := r.topK
	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]Chunk, 0, k)
	for _, s := range ranked[:k] {
		out = append(out, s.chunk)
	}
	return out
}

// overlapScore counts distinct query terms present in the chunk, weighted
// by term length so longer domain terms dominate stopword noise.
func overlapScore(queryTerms map[string]bool, chunkTerms map[string]bool) float64 {
	score := 0.0
	for term := range queryTerms {
		if chunkTerms[term] {
			score += float64(len(term))
		}
	}
	return score
}

func tokenize(text string) map[string]bool {
	terms := make(map[string]bool)
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(field) >= 3 {
			terms[field] = true
		}
	}
	return terms
}
