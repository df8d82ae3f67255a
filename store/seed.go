package store

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/scambait/plugin/ai"
)

//go:embed seed
var seedFS embed.FS

type seedPattern struct {
	Category    string `json:"category"`
	ScamType    string `json:"scam_type"`
	Description string `json:"description"`
}

// SeedScamPatterns loads the bundled scam-pattern knowledge base on first
// run, embedding each pattern description. A non-empty knowledge base is
// left alone. Without an embedder the seed is skipped; retrieval degrades
// to empty evidence, which the judge tolerates.
func (s *Store) SeedScamPatterns(ctx context.Context, embedder ai.EmbeddingService) error {
	count, err := s.CountScamPatterns(ctx)
	if err != nil {
		return errors.Wrap(err, "count scam patterns")
	}
	if count > 0 {
		slog.Debug("scam pattern knowledge base already seeded", "count", count)
		return nil
	}
	if embedder == nil {
		slog.Warn("no embedding provider, scam pattern seed skipped")
		return nil
	}

	buf, err := seedFS.ReadFile("seed/patterns.json")
	if err != nil {
		return errors.Wrap(err, "read seed patterns")
	}
	var patterns []seedPattern
	if err := json.Unmarshal(buf, &patterns); err != nil {
		return errors.Wrap(err, "parse seed patterns")
	}

	seeded := 0
	for _, p := range patterns {
		embedding, err := embedder.Embed(ctx, p.Description)
		if err != nil {
			slog.Warn("seed pattern embedding failed", "category", p.Category, "error", err)
			continue
		}
		_, err = s.UpsertScamPattern(ctx, &ScamPattern{
			Category:    p.Category,
			ScamType:    p.ScamType,
			Description: p.Description,
			Embedding:   embedding,
			CreatedTs:   time.Now().Unix(),
		})
		if err != nil {
			return errors.Wrapf(err, "seed scam pattern %q", p.Category)
		}
		seeded++
	}
	slog.Info("scam pattern knowledge base seeded", "patterns", seeded)
	return nil
}
