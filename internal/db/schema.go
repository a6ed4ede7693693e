package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id                 TEXT PRIMARY KEY,
    title              TEXT NOT NULL,
    description        TEXT NOT NULL DEFAULT '',
    kind               TEXT NOT NULL CHECK (kind IN ('lost', 'found')),
    category           TEXT NOT NULL,
    color              TEXT,
    location           TEXT NOT NULL,
    date               DATETIME NOT NULL,
    tags               TEXT NOT NULL DEFAULT '[]',
    status             TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'claimed', 'archived')),
    poster_id          TEXT NOT NULL,
    contact_info       TEXT,
    image              BLOB,
    image_mime         TEXT,
    image_blurred      BLOB,
    claim_token        TEXT,
    claim_token_expiry DATETIME,
    questions          TEXT NOT NULL DEFAULT '[]',
    renew_count        INTEGER NOT NULL DEFAULT 0,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expires_at         DATETIME,
    deleted_at         DATETIME
);

CREATE INDEX IF NOT EXISTS idx_items_status_active
    ON items(status) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS claims (
    id           TEXT PRIMARY KEY,
    item_id      TEXT NOT NULL REFERENCES items(id),
    claimant_id  TEXT NOT NULL,
    claim_token  TEXT NOT NULL,
    answers      TEXT NOT NULL DEFAULT '[]',
    status       TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected', 'flagged')),
    score        INTEGER,
    flags        TEXT NOT NULL DEFAULT '[]',
    review_notes TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    reviewed_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_claims_item ON claims(item_id);

CREATE TABLE IF NOT EXISTS conversations (
    id            TEXT PRIMARY KEY,
    item_id       TEXT NOT NULL REFERENCES items(id),
    claimant_id   TEXT NOT NULL,
    status        TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'resolved', 'expired')),
    message_count INTEGER NOT NULL DEFAULT 0,
    max_messages  INTEGER NOT NULL DEFAULT 5,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_item
    ON conversations(item_id);

CREATE TABLE IF NOT EXISTS messages (
    id              TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL REFERENCES conversations(id),
    sender_role     TEXT NOT NULL CHECK (sender_role IN ('poster', 'claimant')),
    text            TEXT NOT NULL,
    timestamp       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation
    ON messages(conversation_id);

CREATE TABLE IF NOT EXISTS reputation (
    user_id           TEXT PRIMARY KEY,
    successful_claims INTEGER NOT NULL DEFAULT 0,
    failed_claims     INTEGER NOT NULL DEFAULT 0,
    items_returned    INTEGER NOT NULL DEFAULT 0,
    items_found       INTEGER NOT NULL DEFAULT 0
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: conversations gained a per-item unique index so a second
	// claimant reuses the open thread instead of forking a new one.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_item
	     ON conversations(item_id)`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
