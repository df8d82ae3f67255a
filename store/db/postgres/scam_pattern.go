package postgres

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/hrygo/scambait/store"
)

func (d *DB) UpsertScamPattern(ctx context.Context, pattern *store.ScamPattern) (*store.ScamPattern, error) {
	stmt := `
		INSERT INTO scam_pattern (category, scam_type, description, embedding, created_ts)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (description)
		DO UPDATE SET
			category = EXCLUDED.category,
			scam_type = EXCLUDED.scam_type,
			embedding = EXCLUDED.embedding
		RETURNING id
	`
	vector := pgvector.NewVector(pattern.Embedding)
	err := d.db.QueryRowContext(ctx, stmt,
		pattern.Category,
		pattern.ScamType,
		pattern.Description,
		vector,
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

func (d *DB) SearchScamPatterns(ctx context.Context, embedding []float32, limit int) ([]*store.ScamPatternMatch, error) {
	if limit <= 0 {
		limit = 5
	}

	// The <=> operator computes cosine distance (1 - cosine_similarity),
	// so ordering by distance ASC yields most similar first.
	query := `
		SELECT category, scam_type, description,
			1 - (embedding <=> $1) AS similarity
		FROM scam_pattern
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $2
		LIMIT $3
	`
	vector := pgvector.NewVector(embedding)
	rows, err := d.db.QueryContext(ctx, query, vector, vector, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search scam patterns")
	}
	defer rows.Close()

	matches := []*store.ScamPatternMatch{}
	for rows.Next() {
		var match store.ScamPatternMatch
		if err := rows.Scan(
			&match.Category,
			&match.ScamType,
			&match.Description,
			&match.Similarity,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan scam pattern match")
		}
		matches = append(matches, &match)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate scam pattern matches")
	}
	return matches, nil
}
