package storage

// sqlite.go — durable state for the agent.
//
// Tables:
//   - `trades`: one row per position, created on BUY, flipped to CLOSED
//     exactly once on SELL. Never deleted.
//   - `social_posts`: append-only audit log of successful publishes.
//   - `mentions`: inbound community messages, UNIQUE(platform, mention_id).
//     The constraint is the dedup source of truth: a second insert for the
//     same mention is a no-op, so a crashed run can never double-reply.
//   - `portfolio_snapshots`: append-only, one row per digest.

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
    id            TEXT PRIMARY KEY,
    market_id     TEXT NOT NULL,
    market_name   TEXT NOT NULL DEFAULT '',
    position      TEXT NOT NULL,
    amount_eth    REAL NOT NULL DEFAULT 0,
    amount_usd    REAL NOT NULL DEFAULT 0,
    entry_price   REAL NOT NULL DEFAULT 0,
    entry_tx_hash TEXT NOT NULL DEFAULT '',
    entry_time    DATETIME NOT NULL,
    exit_price    REAL NOT NULL DEFAULT 0,
    exit_tx_hash  TEXT NOT NULL DEFAULT '',
    exit_time     DATETIME,
    pnl_bps       INTEGER NOT NULL DEFAULT 0,
    status        TEXT NOT NULL DEFAULT 'OPEN'
);

CREATE TABLE IF NOT EXISTS social_posts (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    platform   TEXT NOT NULL,
    post_id    TEXT NOT NULL DEFAULT '',
    content    TEXT NOT NULL,
    post_type  TEXT NOT NULL,
    trade_id   TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS mentions (
    platform   TEXT NOT NULL,
    mention_id TEXT NOT NULL,
    author     TEXT NOT NULL DEFAULT '',
    content    TEXT NOT NULL DEFAULT '',
    replied    INTEGER NOT NULL DEFAULT 0,
    reply_id   TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL,
    PRIMARY KEY (platform, mention_id)
);

CREATE TABLE IF NOT EXISTS portfolio_snapshots (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    taken_at       DATETIME NOT NULL,
    total_value    REAL NOT NULL DEFAULT 0,
    open_positions INTEGER NOT NULL DEFAULT 0,
    daily_pnl_bps  INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status, market_id, entry_time);
CREATE INDEX IF NOT EXISTS idx_trades_exit   ON trades(exit_time);
CREATE INDEX IF NOT EXISTS idx_posts_at      ON social_posts(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_snapshots_at  ON portfolio_snapshots(taken_at DESC);
`

// SQLiteStorage implements ports.Storage using SQLite (pure Go, no CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database at the given path and
// applies the schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close shuts the database connection down cleanly.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
