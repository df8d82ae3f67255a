package sqlite

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/hrygo/scambait/store"
)

func (d *DB) UpsertScamPattern(ctx context.Context, pattern *store.ScamPattern) (*store.ScamPattern, error) {
	embedding, err := json.Marshal(pattern.Embedding)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal embedding")
	}

	stmt := `
		INSERT INTO scam_pattern (category, scam_type, description, embedding, created_ts)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (description)
		DO UPDATE SET
			category = excluded.category,
			scam_type = excluded.scam_type,
			embedding = excluded.embedding
		RETURNING id
	`
	err = d.db.QueryRowContext(ctx, stmt,
		pattern.Category,
		pattern.ScamType,
		pattern.Description,
		string(embedding),
		pattern.CreatedTs,
	).Scan(&pattern.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert scam pattern")
	}
	return pattern, nil
}

func (d *DB) CountScamPatterns(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scam_pattern`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count scam patterns")
	}
	return count, nil
}

// SearchScamPatterns has no SQLite implementation; there is no vector
// extension here. Returning an empty list makes evidence retrieval
// degrade the same way as an empty knowledge base.
func (d *DB) SearchScamPatterns(_ context.Context, _ []float32, _ int) ([]*store.ScamPatternMatch, error) {
	return []*store.ScamPatternMatch{}, nil
}
