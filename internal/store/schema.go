package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is bumped whenever the tables below change shape.
const SchemaVersion = 1

// createSchema creates all tables and indexes if they do not exist.
func createSchema(db *sql.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"learner", `
			CREATE TABLE IF NOT EXISTS learner (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				name TEXT NOT NULL DEFAULT '',
				level INTEGER NOT NULL,
				total_xp INTEGER NOT NULL,
				streak INTEGER NOT NULL,
				updated_at TEXT NOT NULL
			)`},
		{"topic_progress", `
			CREATE TABLE IF NOT EXISTS topic_progress (
				topic_id TEXT PRIMARY KEY,
				progress INTEGER NOT NULL CHECK (progress BETWEEN 0 AND 100),
				completed INTEGER NOT NULL DEFAULT 0,
				updated_at TEXT NOT NULL
			)`},
		{"solved_challenges", `
			CREATE TABLE IF NOT EXISTS solved_challenges (
				challenge_id TEXT PRIMARY KEY,
				solved_at TEXT NOT NULL
			)`},
		{"chat_messages", `
			CREATE TABLE IF NOT EXISTS chat_messages (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				id TEXT NOT NULL UNIQUE,
				sender TEXT NOT NULL,
				kind TEXT NOT NULL DEFAULT '',
				content TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`},
		{"meta", `
			CREATE TABLE IF NOT EXISTS meta (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)`},
		{"idx_chat_created", `CREATE INDEX IF NOT EXISTS idx_chat_created ON chat_messages(created_at)`},
	}

	for _, s := range stmts {
		if _, err := db.Exec(s.sql); err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}

	if _, err := db.Exec(
		`INSERT INTO meta (key, value) VALUES ('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fmt.Sprint(SchemaVersion),
	); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}
