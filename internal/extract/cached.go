package extract

import (
	"context"
	"encoding/json"

	"github.com/factgate/factgate/internal/cache"
	"github.com/factgate/factgate/internal/model"
)

// CachedExtractor memoizes extraction results by text content. Extraction
// is the most expensive repeated call in evaluation runs, where the same
// source chunks are re-extracted across questions and re-runs.
type CachedExtractor struct {
	inner Extractor
	store cache.Cache
}

// NewCachedExtractor wraps an extractor with a cache layer.
func NewCachedExtractor(inner Extractor, store cache.Cache) *CachedExtractor {
	return &CachedExtractor{inner: inner, store: store}
}

// ExtractFromAnswer extracts with caching keyed on the answer text.
func (c *CachedExtractor) ExtractFromAnswer(ctx context.Context, text string) (*model.FactSet, error) {
	return c.cached(ctx, "answer", text, c.inner.ExtractFromAnswer)
}

// ExtractFromSource extracts with caching keyed on the source text.
func (c *CachedExtractor) ExtractFromSource(ctx context.Context, text string) (*model.FactSet, error) {
	return c.cached(ctx, "source", text, c.inner.ExtractFromSource)
}

func (c *CachedExtractor) cached(ctx context.Context, scope, text string, fn func(context.Context, string) (*model.FactSet, error)) (*model.FactSet, error) {
	key := cache.CacheKey(scope + "\x1f" + text)

	if data, found := c.store.Get(key); found {
		var assertions []model.Assertion
		if err := json.Unmarshal(data, &assertions); err == nil {
			return model.NewFactSet(assertions...), nil
		}
		// Corrupt entry: fall through to a fresh extraction
		_ = c.store.Delete(key)
	}

	fs, err := fn(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(fs.Assertions()); err == nil {
		_ = c.store.Set(key, data, 0)
	}
	return fs, nil
}
