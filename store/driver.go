package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Session model related methods.
	GetSession(ctx context.Context, id string) (*SessionRecord, error)
	UpsertSession(ctx context.Context, record *SessionRecord) error
	DeleteSession(ctx context.Context, id string) error
	// DeleteExpiredSessions removes completed sessions whose end timestamp
	// is before the cutoff and returns how many were removed.
	DeleteExpiredSessions(ctx context.Context, cutoffTs int64) (int, error)

	// ScamPattern knowledge base related methods.
	UpsertScamPattern(ctx context.Context, pattern *ScamPattern) (*ScamPattern, error)
	CountScamPatterns(ctx context.Context) (int, error)
	// SearchScamPatterns performs cosine-similarity search over the
	// knowledge base. Drivers without vector support return an empty list.
	SearchScamPatterns(ctx context.Context, embedding []float32, limit int) ([]*ScamPatternMatch, error)

	// Report archive related methods.
	CreateReport(ctx context.Context, record *ReportRecord) error
	ListReports(ctx context.Context, find *FindReport) ([]*ReportRecord, error)
}
