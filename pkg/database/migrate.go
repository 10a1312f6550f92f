package database

import (
	"database/sql"
	"fmt"
)

// Schema is the full sqlite schema. It is idempotent so every binary can
// run Migrate at startup. A copy lives in docs/schema.sql for reference.
const Schema = `
CREATE TABLE IF NOT EXISTS tracked_items (
  id TEXT PRIMARY KEY,
  url TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  price REAL,
  in_stock INTEGER NOT NULL DEFAULT 0,
  prev_in_stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  source TEXT NOT NULL,
  last_checked TIMESTAMP,
  added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS email_settings (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  enabled INTEGER NOT NULL DEFAULT 0,
  sender_email TEXT NOT NULL DEFAULT '',
  sender_password TEXT NOT NULL DEFAULT '',
  recipient_email TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
