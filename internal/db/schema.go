package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS members (
    id         TEXT PRIMARY KEY,
    type       TEXT NOT NULL CHECK (type IN ('player', 'coach')),
    name       TEXT NOT NULL,
    category   TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_members_type ON members(type, name);

CREATE TABLE IF NOT EXISTS items (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    category      TEXT NOT NULL DEFAULT '',
    model         TEXT NOT NULL DEFAULT '',
    size          TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL,
    quantity      INTEGER NOT NULL CHECK (quantity >= 0),
    batch_id      TEXT NOT NULL DEFAULT '',
    number        INTEGER,
    distributions TEXT NOT NULL DEFAULT '[]',
    assigned_type TEXT NOT NULL DEFAULT '',
    assigned_to   TEXT NOT NULL DEFAULT '',
    created_at    DATETIME NOT NULL,
    updated_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_batch ON items(batch_id, number);

CREATE TABLE IF NOT EXISTS matches (
    id         TEXT PRIMARY KEY,
    date       TEXT NOT NULL,
    time       TEXT NOT NULL,
    category   TEXT NOT NULL DEFAULT '',
    opponent   TEXT NOT NULL DEFAULT '',
    field_ids  TEXT NOT NULL DEFAULT '[]',
    ref_center TEXT NOT NULL DEFAULT '',
    ref_asst1  TEXT NOT NULL DEFAULT '',
    ref_asst2  TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_matches_date ON matches(date, time);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
