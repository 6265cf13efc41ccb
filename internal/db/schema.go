package db

import "context"

// The transcripts foreign key is declarative only: the store never turns on
// PRAGMA foreign_keys, so the retention sweep can orphan transcripts.
const schema = `
	CREATE TABLE IF NOT EXISTS summary_processes (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		result TEXT,
		error TEXT,
		start_time TEXT,
		end_time TEXT,
		chunk_count INTEGER DEFAULT 0,
		processing_time REAL DEFAULT 0.0,
		metadata TEXT
	);

	CREATE TABLE IF NOT EXISTS transcripts (
		process_id TEXT PRIMARY KEY,
		meeting_name TEXT,
		transcript_text TEXT NOT NULL,
		model TEXT NOT NULL,
		model_name TEXT NOT NULL,
		chunk_size INTEGER,
		overlap INTEGER,
		created_at TEXT NOT NULL,
		FOREIGN KEY (process_id) REFERENCES summary_processes(id)
	);

	CREATE TABLE IF NOT EXISTS meetings (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT,
		attendees TEXT,
		tags TEXT,
		content TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		deleted_at TEXT
	);
`

// EnsureSchema creates the three tables if they do not exist. Safe to call
// repeatedly and from concurrent processes; must run once before any other
// store method touches a fresh database file.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return wrapErr("create schema", err)
	}
	s.log.Info("database initialized")
	return nil
}
