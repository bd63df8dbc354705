package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/nutrisense/internal/profile"
	"github.com/hrygo/nutrisense/store"
)

// DB is the sqlite-backed store driver.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the sqlite database named by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// A busy timeout covers concurrent writers; WAL keeps readers unblocked.
	dsn := profile.DSN + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	sqliteDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", dsn)
	}

	return &DB{db: sqliteDB, profile: profile}, nil
}

const latestSchema = `
CREATE TABLE IF NOT EXISTS snapshot (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL,
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
	days INTEGER NOT NULL DEFAULT 0,
	source TEXT NOT NULL DEFAULT 'computed',
	scores TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_snapshot_user_id ON snapshot (user_id);

CREATE TABLE IF NOT EXISTS simulation (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL,
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
	action TEXT NOT NULL,
	params TEXT NOT NULL DEFAULT '{}',
	result TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_simulation_user_id ON simulation (user_id);
`

// Migrate applies the schema.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}
