// Package source reads the decrypted SQLite archive. The pipeline only
// issues ordered range and full-table reads; it never writes.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

type Options struct {
	Path        string
	PingTimeout time.Duration
}

type DB struct {
	DB *sql.DB
}

// Open opens one source database file read-only. The decrypt step rewrites
// the files each cycle, so callers scope a DB to a single cycle.
func Open(opt Options) (*DB, error) {
	if opt.PingTimeout == 0 {
		opt.PingTimeout = 2 * time.Second
	}
	if _, err := os.Stat(opt.Path); err != nil {
		return nil, fmt.Errorf("source database missing: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+opt.Path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), opt.PingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{DB: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
