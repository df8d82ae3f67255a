package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/scambait/store"
)

func (d *DB) CreateReport(ctx context.Context, record *store.ReportRecord) error {
	stmt := `
		INSERT INTO report (id, session_id, payload, created_ts)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := d.db.ExecContext(ctx, stmt,
		record.ID,
		record.SessionID,
		record.Payload,
		record.CreatedTs,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to create report %s", record.ID)
	}
	return nil
}

func (d *DB) ListReports(ctx context.Context, find *store.FindReport) ([]*store.ReportRecord, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find != nil && find.SessionID != nil {
		where, args = append(where, "session_id = ?"), append(args, *find.SessionID)
	}

	query := `
		SELECT id, session_id, payload, created_ts
		FROM report
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	if find != nil && find.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reports")
	}
	defer rows.Close()

	list := []*store.ReportRecord{}
	for rows.Next() {
		var record store.ReportRecord
		if err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.Payload,
			&record.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan report")
		}
		list = append(list, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate reports")
	}
	return list, nil
}
