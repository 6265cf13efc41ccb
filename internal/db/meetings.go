package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewMeeting holds caller-supplied fields for CreateMeeting. Time, Attendees,
// Tags, and Content are optional.
type NewMeeting struct {
	Title     string
	Date      string
	Time      string
	Attendees []string
	Tags      []string
	Content   string
}

// CreateMeeting inserts a meeting record and returns its generated id.
func (s *Store) CreateMeeting(ctx context.Context, m NewMeeting) (string, error) {
	id := uuid.NewString()
	now := nowUTC()

	var meetingTime sql.NullString
	if m.Time != "" {
		meetingTime = sql.NullString{String: m.Time, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meetings (id, title, date, time, attendees, tags, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, m.Title, m.Date, meetingTime, encodeList(m.Attendees), encodeList(m.Tags), m.Content, now, now)
	if err != nil {
		return "", wrapErr("insert meeting", err)
	}

	s.log.Info("created meeting", zap.String("id", id))
	return id, nil
}

// Meetings returns all meetings that are not soft-deleted, newest date first.
func (s *Store) Meetings(ctx context.Context) ([]Meeting, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, date, time, attendees, tags, content, created_at, updated_at
		FROM meetings
		WHERE deleted_at IS NULL
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, wrapErr("query meetings", err)
	}
	defer rows.Close()

	var meetings []Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, wrapErr("scan meeting", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// Meeting returns the meeting with the given id, or nil if it does not exist
// or has been soft-deleted. Absence is not an error.
func (s *Store) Meeting(ctx context.Context, id string) (*Meeting, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, date, time, attendees, tags, content, created_at, updated_at
		FROM meetings
		WHERE id = ? AND deleted_at IS NULL
	`, id)

	m, err := scanMeeting(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, wrapErr("scan meeting", err)
	}
	return &m, nil
}

// UpdateMeeting overwrites title, date, time, attendees, tags, and content of
// the meeting with m.ID and refreshes updated_at. It returns the number of
// rows affected: zero means the target is unknown or soft-deleted and the
// call was a no-op, which is not an error.
func (s *Store) UpdateMeeting(ctx context.Context, m Meeting) (int64, error) {
	var meetingTime sql.NullString
	if m.Time != "" {
		meetingTime = sql.NullString{String: m.Time, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE meetings
		SET title = ?, date = ?, time = ?, attendees = ?, tags = ?, content = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, m.Title, m.Date, meetingTime, encodeList(m.Attendees), encodeList(m.Tags), m.Content, nowUTC(), m.ID)
	if err != nil {
		return 0, wrapErr("update meeting", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr("update meeting rows", err)
	}
	s.log.Info("updated meeting", zap.String("id", m.ID), zap.Int64("rows", n))
	return n, nil
}

// DeleteMeeting soft-deletes a meeting by stamping deleted_at. It does not
// check whether the meeting exists or is already deleted; repeating the call
// only moves the stamp. The row is never physically removed.
func (s *Store) DeleteMeeting(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE meetings SET deleted_at = ? WHERE id = ?`, nowUTC(), id)
	if err != nil {
		return wrapErr("delete meeting", err)
	}
	s.log.Info("deleted meeting", zap.String("id", id))
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row scanner) (Meeting, error) {
	var m Meeting
	var meetingTime, attendees, tags, content sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&m.ID, &m.Title, &m.Date, &meetingTime,
		&attendees, &tags, &content, &createdAt, &updatedAt)
	if err != nil {
		return Meeting{}, err
	}

	m.Time = meetingTime.String
	m.Attendees = decodeList(attendees.String)
	m.Tags = decodeList(tags.String)
	m.Content = content.String
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)
	return m, nil
}
