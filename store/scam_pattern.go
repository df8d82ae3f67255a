package store

import (
	"context"

	"github.com/hrygo/scambait/plugin/ai/evidence"
)

// ScamPattern is one knowledge-base entry: a known scam script fragment
// with its embedding for similarity search.
type ScamPattern struct {
	ID          int32
	Category    string
	ScamType    string
	Description string
	Embedding   []float32
	CreatedTs   int64
}

// ScamPatternMatch is a search hit with its cosine similarity.
type ScamPatternMatch struct {
	Category    string
	ScamType    string
	Description string
	Similarity  float64
}

var _ evidence.Searcher = (*Store)(nil)

// SearchScamPatterns implements the retriever's search contract over the
// knowledge base.
func (s *Store) SearchScamPatterns(ctx context.Context, embedding []float32, limit int) ([]evidence.Pattern, error) {
	matches, err := s.driver.SearchScamPatterns(ctx, embedding, limit)
	if err != nil {
		return nil, err
	}
	patterns := make([]evidence.Pattern, 0, len(matches))
	for _, m := range matches {
		patterns = append(patterns, evidence.Pattern{
			Category:    m.Category,
			ScamType:    m.ScamType,
			Description: m.Description,
			Similarity:  m.Similarity,
		})
	}
	return patterns, nil
}

// UpsertScamPattern inserts or replaces one knowledge-base entry.
func (s *Store) UpsertScamPattern(ctx context.Context, pattern *ScamPattern) (*ScamPattern, error) {
	return s.driver.UpsertScamPattern(ctx, pattern)
}

// CountScamPatterns reports the knowledge-base size.
func (s *Store) CountScamPatterns(ctx context.Context) (int, error) {
	return s.driver.CountScamPatterns(ctx)
}
