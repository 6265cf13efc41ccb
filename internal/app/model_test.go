package app

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zackriya-Solutions/meeting-minutes/internal/db"
)

func newTestModel(t *testing.T) (Model, *db.Store) {
	t.Helper()

	store, err := db.Open(":memory:", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return New(store), store
}

func applyUpdate(m Model, msg tea.Msg) (Model, tea.Cmd) {
	newModel, cmd := m.Update(msg)
	return newModel.(Model), cmd
}

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(t)
	if len(m.meetings) != 0 {
		t.Error("new model should have no meetings")
	}
	if m.focusedPanel != FocusMeetings {
		t.Error("new model should focus the meetings panel")
	}
}

func TestMeetingsLoaded(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 80
	m.height = 24

	msg := MeetingsLoadedMsg{Meetings: []db.Meeting{
		{ID: "m-1", Title: "Weekly Sync", Date: "2026-08-25"},
		{ID: "m-2", Title: "Project Kickoff", Date: "2026-08-24"},
	}}

	model, cmd := applyUpdate(m, msg)
	if len(model.meetings) != 2 {
		t.Fatalf("meetings = %d, want 2", len(model.meetings))
	}
	if model.statusText != "2 meetings" {
		t.Errorf("statusText = %q", model.statusText)
	}
	if cmd == nil {
		t.Error("loading meetings should trigger a detail load")
	}
}

func TestMeetingsLoadedClampsSelection(t *testing.T) {
	m, _ := newTestModel(t)
	m.selectedMeeting = 5

	model, _ := applyUpdate(m, MeetingsLoadedMsg{Meetings: []db.Meeting{
		{ID: "m-1", Title: "Only One", Date: "2026-08-25"},
	}})
	if model.selectedMeeting != 0 {
		t.Errorf("selectedMeeting = %d, want 0", model.selectedMeeting)
	}
}

func TestDetailLoadedIgnoresStaleMeeting(t *testing.T) {
	m, _ := newTestModel(t)
	m.meetings = []db.Meeting{{ID: "m-1", Title: "Current", Date: "2026-08-25"}}

	completed := db.StatusCompleted
	model, _ := applyUpdate(m, DetailLoadedMsg{
		MeetingID: "m-other",
		Process:   &db.SummaryProcess{ID: "p-1", Status: completed},
	})
	if model.detailProcess != nil {
		t.Error("stale detail applied to a different meeting")
	}

	model, _ = applyUpdate(m, DetailLoadedMsg{
		MeetingID: "m-1",
		Process:   &db.SummaryProcess{ID: "p-1", Status: completed},
	})
	if model.detailProcess == nil {
		t.Fatal("current detail not applied")
	}
	if model.detailFor != "m-1" {
		t.Errorf("detailFor = %q, want m-1", model.detailFor)
	}
}

func TestMeetingNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 80
	m.height = 24
	m.meetings = []db.Meeting{
		{ID: "m-1", Title: "A", Date: "2026-08-25"},
		{ID: "m-2", Title: "B", Date: "2026-08-24"},
		{ID: "m-3", Title: "C", Date: "2026-08-23"},
	}

	model, cmd := applyUpdate(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if model.selectedMeeting != 1 {
		t.Errorf("after j, selectedMeeting = %d, want 1", model.selectedMeeting)
	}
	if cmd == nil {
		t.Error("selection change should reload detail")
	}

	model, _ = applyUpdate(model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if model.selectedMeeting != 0 {
		t.Errorf("after k, selectedMeeting = %d, want 0", model.selectedMeeting)
	}

	// k at the top stays put.
	model, _ = applyUpdate(model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if model.selectedMeeting != 0 {
		t.Errorf("k at top moved selection to %d", model.selectedMeeting)
	}
}

func TestTabTogglesFocus(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 80
	m.height = 24

	if m.focusedPanel != FocusMeetings {
		t.Error("should start focused on meetings")
	}

	model, _ := applyUpdate(m, tea.KeyMsg{Type: tea.KeyTab})
	if model.focusedPanel != FocusDetail {
		t.Error("tab should switch to detail")
	}

	model, _ = applyUpdate(model, tea.KeyMsg{Type: tea.KeyTab})
	if model.focusedPanel != FocusMeetings {
		t.Error("tab again should switch back to meetings")
	}
}

func TestDetailScroll(t *testing.T) {
	m, _ := newTestModel(t)
	m.focusedPanel = FocusDetail

	model, _ := applyUpdate(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if model.detailScroll != 1 {
		t.Errorf("detailScroll = %d, want 1", model.detailScroll)
	}

	model, _ = applyUpdate(model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if model.detailScroll != 0 {
		t.Errorf("detailScroll = %d, want 0", model.detailScroll)
	}

	// k at zero stays put.
	model, _ = applyUpdate(model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if model.detailScroll != 0 {
		t.Errorf("detailScroll = %d, want 0", model.detailScroll)
	}
}

func TestStoreError(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 80
	m.height = 24

	model, _ := applyUpdate(m, StoreErrorMsg{Err: fmt.Errorf("disk I/O error")})
	if model.errorMessage != "disk I/O error" {
		t.Errorf("errorMessage = %q", model.errorMessage)
	}
}

func TestLoadMeetingsFromStore(t *testing.T) {
	m, store := newTestModel(t)
	ctx := context.Background()

	meetingID, err := store.CreateMeeting(ctx, db.NewMeeting{Title: "Standup", Date: "2026-08-25"})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	processID, err := store.CreateProcess(ctx)
	if err != nil {
		t.Fatalf("create process: %v", err)
	}
	completed := db.StatusCompleted
	if _, err := store.UpdateProcess(ctx, processID, db.ProcessUpdate{
		Status:   &completed,
		Result:   map[string]any{"summary": "short"},
		Metadata: map[string]any{"meeting_id": meetingID},
	}); err != nil {
		t.Fatalf("update process: %v", err)
	}

	msg := loadMeetingsCmd(store)()
	loaded, ok := msg.(MeetingsLoadedMsg)
	if !ok {
		t.Fatalf("msg = %T, want MeetingsLoadedMsg", msg)
	}
	if len(loaded.Meetings) != 1 {
		t.Fatalf("meetings = %d, want 1", len(loaded.Meetings))
	}

	m, _ = applyUpdate(m, loaded)

	detail := loadDetailCmd(store, meetingID)()
	detailMsg, ok := detail.(DetailLoadedMsg)
	if !ok {
		t.Fatalf("msg = %T, want DetailLoadedMsg", detail)
	}
	if detailMsg.Process == nil {
		t.Fatal("no process matched the meeting")
	}
	if detailMsg.Process.ID != processID {
		t.Errorf("process ID = %q, want %q", detailMsg.Process.ID, processID)
	}

	m, _ = applyUpdate(m, detailMsg)
	if m.detailProcess == nil {
		t.Fatal("detail not applied")
	}
}

func TestViewRendersWithSize(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 80
	m.height = 24
	m.meetings = []db.Meeting{
		{ID: "m-1", Title: "Weekly Sync", Date: "2026-08-25",
			Attendees: []string{"alice@example.com"}, Tags: []string{"sync"},
			Content: "Discussion about weekly progress."},
	}

	view := m.View()
	if view == "" {
		t.Error("view should not be empty")
	}
	if view == "Initializing..." {
		t.Error("view should not show initializing with size set")
	}
}

func TestViewWithoutSize(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	if view != "Initializing..." {
		t.Errorf("view without size = %q, want 'Initializing...'", view)
	}
}
