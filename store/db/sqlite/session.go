package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/hrygo/scambait/store"
)

func (d *DB) GetSession(ctx context.Context, id string) (*store.SessionRecord, error) {
	stmt := `
		SELECT id, status, scam_detected, payload, end_ts, created_ts, updated_ts
		FROM session
		WHERE id = ?
	`
	var record store.SessionRecord
	err := d.db.QueryRowContext(ctx, stmt, id).Scan(
		&record.ID,
		&record.Status,
		&record.ScamDetected,
		&record.Payload,
		&record.EndTs,
		&record.CreatedTs,
		&record.UpdatedTs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get session %s", id)
	}
	return &record, nil
}

func (d *DB) UpsertSession(ctx context.Context, record *store.SessionRecord) error {
	stmt := `
		INSERT INTO session (id, status, scam_detected, payload, end_ts, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET
			status = excluded.status,
			scam_detected = excluded.scam_detected,
			payload = excluded.payload,
			end_ts = excluded.end_ts,
			updated_ts = excluded.updated_ts
	`
	_, err := d.db.ExecContext(ctx, stmt,
		record.ID,
		record.Status,
		record.ScamDetected,
		record.Payload,
		record.EndTs,
		record.CreatedTs,
		record.UpdatedTs,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to upsert session %s", record.ID)
	}
	return nil
}

func (d *DB) DeleteSession(ctx context.Context, id string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM session WHERE id = ?`, id); err != nil {
		return errors.Wrapf(err, "failed to delete session %s", id)
	}
	return nil
}

func (d *DB) DeleteExpiredSessions(ctx context.Context, cutoffTs int64) (int, error) {
	result, err := d.db.ExecContext(ctx, `
		DELETE FROM session
		WHERE status = 'complete' AND end_ts > 0 AND end_ts < ?
	`, cutoffTs)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete expired sessions")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count deleted sessions")
	}
	return int(affected), nil
}
