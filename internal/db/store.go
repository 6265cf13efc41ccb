package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrStorageUnavailable marks failures to reach or validate the database
// file itself, as opposed to statement-level errors.
var ErrStorageUnavailable = errors.New("storage unavailable")

// timeLayout is the stored timestamp format: UTC ISO-8601 with fixed-width
// fractional seconds, so lexicographic order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store provides access to the meeting-minutes SQLite database. Each method
// is one independent unit of work; database/sql checks a connection out of
// the pool per call and returns it on every exit path. The engine serializes
// concurrent writers (WAL plus busy_timeout), the store adds no locking of
// its own.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// DefaultDBPath returns the default database location.
func DefaultDBPath() string {
	return "meeting_minutes.db"
}

// Open opens (creating if needed) the database at path. The special path
// ":memory:" opens a private in-memory database on a single connection,
// used by tests and dry runs.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	single := false
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=busy_timeout(5000)"
		single = true
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w: %v", ErrStorageUnavailable, err)
	}
	if single {
		// Each pooled connection would otherwise see its own empty memory DB.
		sqlDB.SetMaxOpenConns(1)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w: %v", ErrStorageUnavailable, err)
	}

	return &Store{db: sqlDB, log: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func wrapErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

func nowUTC() string {
	return time.Now().UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by other tooling may carry shorter fractions.
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

// encodeList serializes a string slice for storage. A nil slice encodes as
// "[]" so reads never see null for attendees or tags.
func encodeList(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeList(s string) []string {
	if s == "" {
		return []string{}
	}
	var v []string
	if err := json.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return []string{}
	}
	return v
}

func encodeMap(m map[string]any) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(b), nil
}

func decodeMap(s sql.NullString) map[string]any {
	if !s.Valid || s.String == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil
	}
	return m
}
