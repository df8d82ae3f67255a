// Package evidence retrieves known scam patterns similar to an inbound
// message. Retrieved patterns are advisory prompt context for the judge;
// an empty result is "no corroboration", never a detection signal.
package evidence

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hrygo/scambait/plugin/ai"
	"github.com/hrygo/scambait/plugin/ai/timeout"
)

// Bucket grades a match's similarity for prompt formatting.
type Bucket string

const (
	BucketHigh   Bucket = "HIGH"
	BucketMedium Bucket = "MEDIUM"
	BucketLow    Bucket = "LOW"

	highSimilarity   = 0.85
	mediumSimilarity = 0.6

	// DefaultK is the default number of patterns to retrieve.
	DefaultK = 5
)

// Pattern is one retrieved knowledge-base entry.
type Pattern struct {
	Category    string
	ScamType    string
	Description string
	Similarity  float64 // in [0,1]
}

// Bucket returns the similarity grade for the pattern.
func (p Pattern) Bucket() Bucket {
	switch {
	case p.Similarity >= highSimilarity:
		return BucketHigh
	case p.Similarity >= mediumSimilarity:
		return BucketMedium
	default:
		return BucketLow
	}
}

// Searcher is the knowledge-base lookup the retriever runs on. The store
// layer implements it over pgvector; drivers without vector support return
// an empty list.
type Searcher interface {
	SearchScamPatterns(ctx context.Context, vector []float32, limit int) ([]Pattern, error)
}

// Retriever embeds the query and searches the scam-pattern knowledge base.
type Retriever struct {
	embedder ai.EmbeddingService
	searcher Searcher
	k        int
}

// NewRetriever creates a Retriever. A nil embedder disables retrieval;
// Retrieve then always returns an empty list.
func NewRetriever(embedder ai.EmbeddingService, searcher Searcher, k int) *Retriever {
	if k <= 0 {
		k = DefaultK
	}
	return &Retriever{embedder: embedder, searcher: searcher, k: k}
}

// Retrieve returns up to K patterns ordered by descending similarity.
// Every failure path degrades to an empty list.
func (r *Retriever) Retrieve(ctx context.Context, text string) []Pattern {
	if r.embedder == nil || r.searcher == nil || strings.TrimSpace(text) == "" {
		return []Pattern{}
	}

	embedCtx, cancel := context.WithTimeout(ctx, timeout.EmbeddingTimeout)
	defer cancel()
	vector, err := r.embedder.Embed(embedCtx, text)
	if err != nil {
		slog.Warn("evidence embedding failed, continuing without evidence",
			slog.String("error", err.Error()))
		return []Pattern{}
	}

	searchCtx, cancel := context.WithTimeout(ctx, timeout.RetrievalTimeout)
	defer cancel()
	patterns, err := r.searcher.SearchScamPatterns(searchCtx, vector, r.k)
	if err != nil {
		slog.Warn("scam pattern search failed, continuing without evidence",
			slog.String("error", err.Error()))
		return []Pattern{}
	}
	if patterns == nil {
		return []Pattern{}
	}

	for i := range patterns {
		if patterns[i].Similarity < 0 {
			patterns[i].Similarity = 0
		}
		if patterns[i].Similarity > 1 {
			patterns[i].Similarity = 1
		}
	}
	return patterns
}

// FormatContext renders patterns as a prompt context block. An empty list
// renders an explicit no-match note so the judge prompt stays well-formed.
func FormatContext(patterns []Pattern) string {
	if len(patterns) == 0 {
		return "No similar known scam patterns found."
	}

	var b strings.Builder
	b.WriteString("Similar known scam patterns:\n")
	for i, p := range patterns {
		fmt.Fprintf(&b, "%d. [%s match, similarity %.2f] %s / %s: %s\n",
			i+1, p.Bucket(), p.Similarity, p.Category, p.ScamType, p.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
