package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProcessUpdate names the fields UpdateProcess may change. Nil pointers and
// nil maps are left untouched. The fixed field set keeps the generated SET
// clause closed to caller-controlled column names.
type ProcessUpdate struct {
	Status         *ProcessStatus
	Result         map[string]any
	Error          *string
	ChunkCount     *int
	ProcessingTime *float64
	Metadata       map[string]any
}

// CreateProcess inserts a new summary process in PENDING state and returns
// its generated id. start_time is the creation instant.
func (s *Store) CreateProcess(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := nowUTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summary_processes (id, status, created_at, updated_at, start_time)
		VALUES (?, ?, ?, ?, ?)
	`, id, string(StatusPending), now, now, now)
	if err != nil {
		return "", wrapErr("insert process", err)
	}

	s.log.Info("created process", zap.String("id", id))
	return id, nil
}

// UpdateProcess applies the supplied subset of fields to a process and
// refreshes updated_at. Supplying a terminal status also sets end_time in
// the same statement; an end_time stamped by an earlier terminal update is
// overwritten, not preserved. Returns rows affected; zero means the id is
// unknown and the call was a no-op.
func (s *Store) UpdateProcess(ctx context.Context, id string, u ProcessUpdate) (int64, error) {
	now := nowUTC()
	sets := []string{"updated_at = ?"}
	args := []any{now}

	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*u.Status))
		if u.Status.Terminal() {
			sets = append(sets, "end_time = ?")
			args = append(args, now)
		}
	}
	if u.Result != nil {
		encoded, err := encodeMap(u.Result)
		if err != nil {
			return 0, wrapErr("update process", err)
		}
		sets = append(sets, "result = ?")
		args = append(args, encoded)
	}
	if u.Error != nil {
		sets = append(sets, "error = ?")
		args = append(args, *u.Error)
	}
	if u.ChunkCount != nil {
		sets = append(sets, "chunk_count = ?")
		args = append(args, *u.ChunkCount)
	}
	if u.ProcessingTime != nil {
		sets = append(sets, "processing_time = ?")
		args = append(args, *u.ProcessingTime)
	}
	if u.Metadata != nil {
		encoded, err := encodeMap(u.Metadata)
		if err != nil {
			return 0, wrapErr("update process", err)
		}
		sets = append(sets, "metadata = ?")
		args = append(args, encoded)
	}

	args = append(args, id)
	query := "UPDATE summary_processes SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapErr("update process", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr("update process rows", err)
	}

	s.log.Info("updated process", zap.String("id", id), zap.Int64("rows", n))
	return n, nil
}

// Process returns the summary process with the given id, or nil if absent.
func (s *Store) Process(ctx context.Context, id string) (*SummaryProcess, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, created_at, updated_at, result, error,
		       start_time, end_time, chunk_count, processing_time, metadata
		FROM summary_processes
		WHERE id = ?
	`, id)

	p, err := scanProcess(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, wrapErr("scan process", err)
	}
	return &p, nil
}

// Processes returns all summary processes, newest first.
func (s *Store) Processes(ctx context.Context) ([]SummaryProcess, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, created_at, updated_at, result, error,
		       start_time, end_time, chunk_count, processing_time, metadata
		FROM summary_processes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, wrapErr("query processes", err)
	}
	defer rows.Close()

	var procs []SummaryProcess
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, wrapErr("scan process", err)
		}
		procs = append(procs, p)
	}
	return procs, rows.Err()
}

// CleanupProcesses hard-deletes every process created more than maxAge ago,
// whatever its status, and returns the number removed. Transcripts of
// removed processes stay behind, orphaned.
func (s *Store) CleanupProcesses(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(timeLayout)

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM summary_processes WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, wrapErr("cleanup processes", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr("cleanup processes rows", err)
	}

	s.log.Info("cleaned up processes", zap.Int64("removed", n), zap.Duration("max_age", maxAge))
	return n, nil
}

func scanProcess(row scanner) (SummaryProcess, error) {
	var p SummaryProcess
	var status string
	var createdAt, updatedAt string
	var result, procErr, startTime, endTime, metadata sql.NullString
	var chunkCount sql.NullInt64
	var processingTime sql.NullFloat64

	err := row.Scan(&p.ID, &status, &createdAt, &updatedAt, &result, &procErr,
		&startTime, &endTime, &chunkCount, &processingTime, &metadata)
	if err != nil {
		return SummaryProcess{}, err
	}

	p.Status = ProcessStatus(status)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	p.Result = decodeMap(result)
	p.Error = procErr.String
	if startTime.Valid {
		p.StartTime = parseTime(startTime.String)
	}
	if endTime.Valid {
		t := parseTime(endTime.String)
		p.EndTime = &t
	}
	p.ChunkCount = int(chunkCount.Int64)
	p.ProcessingTime = processingTime.Float64
	p.Metadata = decodeMap(metadata)
	return p, nil
}
