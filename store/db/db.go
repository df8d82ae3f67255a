// Package db creates store drivers from profile.
//
// PostgreSQL is the production database with full support including
// pgvector similarity search over the scam-pattern knowledge base.
// SQLite is for development and testing only; it persists sessions and
// reports but has no vector search, so evidence retrieval degrades to
// empty results.
package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/scambait/internal/profile"
	"github.com/hrygo/scambait/store"
	"github.com/hrygo/scambait/store/db/postgres"
	"github.com/hrygo/scambait/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'postgres' and 'sqlite' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
