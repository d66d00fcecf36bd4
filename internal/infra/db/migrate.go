package db

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS news (
    id           BIGSERIAL PRIMARY KEY,
    title        TEXT NOT NULL,
    url          TEXT NOT NULL,
    agency       VARCHAR(64) NOT NULL,
    summary      TEXT NOT NULL DEFAULT '',
    published_at TIMESTAMPTZ NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS daily_messages (
    id         BIGSERIAL PRIMARY KEY,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL,
    category   VARCHAR(64) NOT NULL,
    priority   INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	// 重複チェックは agency 単位で全件を読むため
	`CREATE INDEX IF NOT EXISTS idx_news_agency ON news(agency)`,
	// 日付範囲と一覧の ORDER BY 用
	`CREATE INDEX IF NOT EXISTS idx_news_published_at ON news(published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_messages_priority ON daily_messages(priority DESC, created_at DESC)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS news (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    title        TEXT NOT NULL,
    url          TEXT NOT NULL,
    agency       TEXT NOT NULL,
    summary      TEXT NOT NULL DEFAULT '',
    published_at DATETIME NOT NULL,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS daily_messages (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL,
    category   TEXT NOT NULL,
    priority   INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_news_agency ON news(agency)`,
	`CREATE INDEX IF NOT EXISTS idx_news_published_at ON news(published_at)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_messages_priority ON daily_messages(priority, created_at)`,
}

// MigrateUp creates the news and daily_messages tables and their indexes.
// Every statement is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB, dialect Dialect) error {
	stmts := postgresSchema
	if dialect == SQLite {
		stmts = sqliteSchema
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s step %d: %w", dialect, i+1, err)
		}
	}
	return nil
}

// MigrateDown drops the schema. Use with caution: all stored data is lost.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS daily_messages`,
		`DROP TABLE IF EXISTS news`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}
	return nil
}
