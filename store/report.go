package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/scambait/plugin/ai/report"
)

// ReportRecord is one archived final report.
type ReportRecord struct {
	ID        string
	SessionID string
	Payload   []byte
	CreatedTs int64
}

// FindReport filters the report archive.
type FindReport struct {
	SessionID *string
	Limit     *int
}

// ArchiveReport stores a delivered report for later audit.
func (s *Store) ArchiveReport(ctx context.Context, r report.Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshal report payload")
	}
	return s.driver.CreateReport(ctx, &ReportRecord{
		ID:        r.ReportID,
		SessionID: r.SessionID,
		Payload:   payload,
		CreatedTs: time.Now().Unix(),
	})
}

// ArchivingNotifier archives every report before handing it to the real
// notifier. Archive failures are logged; delivery still proceeds.
type ArchivingNotifier struct {
	store *Store
	next  report.Notifier
}

var _ report.Notifier = (*ArchivingNotifier)(nil)

// NewArchivingNotifier wraps next with report archival.
func NewArchivingNotifier(s *Store, next report.Notifier) *ArchivingNotifier {
	return &ArchivingNotifier{store: s, next: next}
}

func (n *ArchivingNotifier) Notify(ctx context.Context, r report.Report) error {
	if err := n.store.ArchiveReport(ctx, r); err != nil {
		slog.Error("report archive failed", "report_id", r.ReportID, "error", err)
	}
	if n.next == nil {
		return nil
	}
	return n.next.Notify(ctx, r)
}

// ListReports returns archived reports, newest first.
func (s *Store) ListReports(ctx context.Context, find *FindReport) ([]report.Report, error) {
	records, err := s.driver.ListReports(ctx, find)
	if err != nil {
		return nil, err
	}
	reports := make([]report.Report, 0, len(records))
	for _, rec := range records {
		var r report.Report
		if err := json.Unmarshal(rec.Payload, &r); err != nil {
			return nil, errors.Wrapf(err, "unmarshal report payload for %s", rec.ID)
		}
		reports = append(reports, r)
	}
	return reports, nil
}
