package db

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

// NewTranscript holds the immutable fields of a transcript row. The meeting
// name is always NULL at insert time and set later via SetMeetingName.
type NewTranscript struct {
	ProcessID string
	Text      string
	Model     string
	ModelName string
	ChunkSize int
	Overlap   int
}

// SaveTranscript inserts the transcript for a process. The table's primary
// key makes a second insert for the same process id fail at the engine; the
// store does not pre-check for one.
func (s *Store) SaveTranscript(ctx context.Context, t NewTranscript) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transcripts
			(process_id, meeting_name, transcript_text, model, model_name, chunk_size, overlap, created_at)
		VALUES (?, NULL, ?, ?, ?, ?, ?, ?)
	`, t.ProcessID, t.Text, t.Model, t.ModelName, t.ChunkSize, t.Overlap, nowUTC())
	if err != nil {
		return wrapErr("insert transcript", err)
	}

	s.log.Info("saved transcript", zap.String("process_id", t.ProcessID))
	return nil
}

// SetMeetingName sets meeting_name on the transcript rows for a process —
// normally exactly one. Returns rows affected; zero when no transcript
// matches, which is not an error.
func (s *Store) SetMeetingName(ctx context.Context, processID, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transcripts SET meeting_name = ? WHERE process_id = ?`, name, processID)
	if err != nil {
		return 0, wrapErr("set meeting name", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr("set meeting name rows", err)
	}

	s.log.Info("set meeting name", zap.String("process_id", processID),
		zap.String("name", name), zap.Int64("rows", n))
	return n, nil
}

// Transcript returns the transcript for a process, or nil if none exists.
func (s *Store) Transcript(ctx context.Context, processID string) (*Transcript, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT process_id, meeting_name, transcript_text, model, model_name,
		       chunk_size, overlap, created_at
		FROM transcripts
		WHERE process_id = ?
	`, processID)

	var t Transcript
	var meetingName sql.NullString
	var chunkSize, overlap sql.NullInt64
	var createdAt string

	err := row.Scan(&t.ProcessID, &meetingName, &t.Text, &t.Model, &t.ModelName,
		&chunkSize, &overlap, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, wrapErr("scan transcript", err)
	}

	t.MeetingName = meetingName.String
	t.ChunkSize = int(chunkSize.Int64)
	t.Overlap = int(overlap.Int64)
	t.CreatedAt = parseTime(createdAt)
	return &t, nil
}
