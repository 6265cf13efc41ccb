package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// newTestStore creates a store over a private in-memory SQLite database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	raw, err := sql.Open("sqlite", "file::memory:?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	raw.SetMaxOpenConns(1)

	s := &Store{db: raw, log: zap.NewNop()}
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	s := newTestStore(t)

	// Second call against existing tables must not error.
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestOpenCreatesAndReopensFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "meeting_minutes.db")

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	id, err := s.CreateMeeting(ctx, NewMeeting{Title: "Persisted", Date: "2026-08-25"})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	m, err := reopened.Meeting(ctx, id)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if m == nil {
		t.Fatal("meeting not found after reopen")
	}
	if m.Title != "Persisted" {
		t.Errorf("title = %q, want %q", m.Title, "Persisted")
	}
}

// TestSummaryScenario walks the full flow: meeting, process, completion with
// a result, transcript, and the late meeting-name backfill.
func TestSummaryScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	meetingID, err := s.CreateMeeting(ctx, NewMeeting{
		Title: "Weekly Sync",
		Date:  "2026-08-25",
	})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}

	processID, err := s.CreateProcess(ctx)
	if err != nil {
		t.Fatalf("create process: %v", err)
	}

	status := StatusCompleted
	chunks := 1
	n, err := s.UpdateProcess(ctx, processID, ProcessUpdate{
		Status:     &status,
		Result:     map[string]any{"summary": "Weekly Sync was productive."},
		ChunkCount: &chunks,
		Metadata:   map[string]any{"meeting_id": meetingID},
	})
	if err != nil {
		t.Fatalf("update process: %v", err)
	}
	if n != 1 {
		t.Fatalf("update affected %d rows, want 1", n)
	}

	if err := s.SaveTranscript(ctx, NewTranscript{
		ProcessID: processID,
		Text:      "Lorem ipsum dolor sit amet.",
		Model:     "whisper",
		ModelName: "Whisper Large",
		ChunkSize: 512,
		Overlap:   64,
	}); err != nil {
		t.Fatalf("save transcript: %v", err)
	}

	if _, err := s.SetMeetingName(ctx, processID, "Weekly Sync"); err != nil {
		t.Fatalf("set meeting name: %v", err)
	}

	m, err := s.Meeting(ctx, meetingID)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if m == nil {
		t.Fatal("meeting not found")
	}

	p, err := s.Process(ctx, processID)
	if err != nil {
		t.Fatalf("get process: %v", err)
	}
	if p.Status != StatusCompleted {
		t.Errorf("status = %q, want COMPLETED", p.Status)
	}
	if p.EndTime == nil {
		t.Error("end_time not set on completed process")
	}
	if got := p.Result["summary"]; got != "Weekly Sync was productive." {
		t.Errorf("result summary = %v", got)
	}
	if got := p.Metadata["meeting_id"]; got != meetingID {
		t.Errorf("metadata meeting_id = %v, want %q", got, meetingID)
	}

	tr, err := s.Transcript(ctx, processID)
	if err != nil {
		t.Fatalf("get transcript: %v", err)
	}
	if tr == nil {
		t.Fatal("transcript not found")
	}
	if tr.MeetingName != "Weekly Sync" {
		t.Errorf("meeting_name = %q, want %q", tr.MeetingName, "Weekly Sync")
	}
}
