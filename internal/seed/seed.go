// Package seed populates a database with demo records for local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Zackriya-Solutions/meeting-minutes/internal/db"
)

// Populate inserts two meetings, one completed and one failed summary
// process, and a transcript for the completed one.
func Populate(ctx context.Context, store *db.Store) error {
	today := time.Now().UTC().Format("2006-01-02")

	weeklySync, err := store.CreateMeeting(ctx, db.NewMeeting{
		Title:     "Weekly Sync",
		Date:      today,
		Time:      "10:00",
		Attendees: []string{"alice@example.com", "bob@example.com"},
		Tags:      []string{"sync", "team"},
		Content:   "Discussion about weekly progress.",
	})
	if err != nil {
		return fmt.Errorf("seed meeting: %w", err)
	}

	kickoff, err := store.CreateMeeting(ctx, db.NewMeeting{
		Title:     "Project Kickoff",
		Date:      today,
		Time:      "09:00",
		Attendees: []string{"charlie@example.com", "dave@example.com"},
		Tags:      []string{"kickoff", "project"},
		Content:   "Initial project kickoff meeting.",
	})
	if err != nil {
		return fmt.Errorf("seed meeting: %w", err)
	}

	completed, err := store.CreateProcess(ctx)
	if err != nil {
		return fmt.Errorf("seed process: %w", err)
	}
	completedStatus := db.StatusCompleted
	chunks := 1
	seconds := 2.5
	if _, err := store.UpdateProcess(ctx, completed, db.ProcessUpdate{
		Status:         &completedStatus,
		Result:         map[string]any{"summary": "Weekly Sync was productive."},
		ChunkCount:     &chunks,
		ProcessingTime: &seconds,
		Metadata:       map[string]any{"meeting_id": weeklySync},
	}); err != nil {
		return fmt.Errorf("seed process update: %w", err)
	}

	failed, err := store.CreateProcess(ctx)
	if err != nil {
		return fmt.Errorf("seed process: %w", err)
	}
	failedStatus := db.StatusFailed
	failure := "Network timeout during processing."
	if _, err := store.UpdateProcess(ctx, failed, db.ProcessUpdate{
		Status:   &failedStatus,
		Error:    &failure,
		Metadata: map[string]any{"meeting_id": kickoff},
	}); err != nil {
		return fmt.Errorf("seed process update: %w", err)
	}

	if err := store.SaveTranscript(ctx, db.NewTranscript{
		ProcessID: completed,
		Text: "Lorem ipsum dolor sit amet, consectetur adipiscing elit. " +
			"Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
		Model:     "fake-model",
		ModelName: "Fake Model",
		ChunkSize: 512,
		Overlap:   64,
	}); err != nil {
		return fmt.Errorf("seed transcript: %w", err)
	}
	if _, err := store.SetMeetingName(ctx, completed, "Weekly Sync"); err != nil {
		return fmt.Errorf("seed meeting name: %w", err)
	}

	return nil
}
