package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Zackriya-Solutions/meeting-minutes/internal/db"
	"github.com/Zackriya-Solutions/meeting-minutes/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// PanelFocus tracks which panel has keyboard focus.
type PanelFocus int

const (
	FocusMeetings PanelFocus = iota
	FocusDetail
)

// refreshInterval is how often the browser re-reads the database. Summary
// processes are written by other programs, so the view polls.
const refreshInterval = 3 * time.Second

// Model is the root bubbletea model for the meeting-minutes browser.
type Model struct {
	store *db.Store

	// Meetings
	meetings        []db.Meeting
	selectedMeeting int

	// Detail for the selected meeting
	detailProcess    *db.SummaryProcess
	detailTranscript *db.Transcript
	detailFor        string // meeting id the detail belongs to

	// UI state
	focusedPanel PanelFocus
	width        int
	height       int
	detailScroll int

	// Errors and status
	errorMessage string
	statusText   string
	lastRefresh  time.Time
}

// New creates a new Model reading from store.
func New(store *db.Store) Model {
	return Model{
		store:        store,
		statusText:   "Loading meetings...",
		focusedPanel: FocusMeetings,
	}
}

// Init returns the initial commands — load meetings and start the refresh
// ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadMeetingsCmd(m.store), refreshTickCmd())
}

// loadMeetingsCmd reads the meeting list from SQLite.
func loadMeetingsCmd(store *db.Store) tea.Cmd {
	return func() tea.Msg {
		meetings, err := store.Meetings(context.Background())
		if err != nil {
			return StoreErrorMsg{Err: err}
		}
		return MeetingsLoadedMsg{Meetings: meetings}
	}
}

// loadDetailCmd finds the newest summary process whose metadata references
// the meeting, plus its transcript. Linkage is by convention: processes
// carry a meeting_id key in their metadata.
func loadDetailCmd(store *db.Store, meetingID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		procs, err := store.Processes(ctx)
		if err != nil {
			return StoreErrorMsg{Err: err}
		}

		msg := DetailLoadedMsg{MeetingID: meetingID}
		for i := range procs {
			if procs[i].Metadata["meeting_id"] == meetingID {
				msg.Process = &procs[i]
				break
			}
		}
		if msg.Process != nil {
			tr, err := store.Transcript(ctx, msg.Process.ID)
			if err != nil {
				return StoreErrorMsg{Err: err}
			}
			msg.Transcript = tr
		}
		return msg
	}
}

// refreshTickCmd schedules the next database reload.
func refreshTickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return RefreshTickMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case MeetingsLoadedMsg:
		m.meetings = msg.Meetings
		m.errorMessage = ""
		m.lastRefresh = time.Now()
		m.statusText = fmt.Sprintf("%d meetings", len(m.meetings))
		if m.selectedMeeting >= len(m.meetings) {
			m.selectedMeeting = max(0, len(m.meetings)-1)
		}
		if len(m.meetings) == 0 {
			m.detailProcess = nil
			m.detailTranscript = nil
			m.detailFor = ""
			return m, nil
		}
		return m, loadDetailCmd(m.store, m.meetings[m.selectedMeeting].ID)

	case DetailLoadedMsg:
		// A stale load can race a selection change; keep only the current one.
		if len(m.meetings) == 0 || m.meetings[m.selectedMeeting].ID != msg.MeetingID {
			return m, nil
		}
		m.detailProcess = msg.Process
		m.detailTranscript = msg.Transcript
		if m.detailFor != msg.MeetingID {
			m.detailScroll = 0
		}
		m.detailFor = msg.MeetingID
		return m, nil

	case StoreErrorMsg:
		m.errorMessage = msg.Err.Error()
		return m, nil

	case RefreshTickMsg:
		return m, tea.Batch(loadMeetingsCmd(m.store), refreshTickCmd())
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		return m, tea.Quit

	case KeyTab:
		if m.focusedPanel == FocusMeetings {
			m.focusedPanel = FocusDetail
		} else {
			m.focusedPanel = FocusMeetings
		}
		return m, nil

	case KeyJ, KeyDown:
		if m.focusedPanel == FocusMeetings {
			if m.selectedMeeting < len(m.meetings)-1 {
				m.selectedMeeting++
				return m, loadDetailCmd(m.store, m.meetings[m.selectedMeeting].ID)
			}
		} else {
			m.detailScroll++
		}
		return m, nil

	case KeyK, KeyUp:
		if m.focusedPanel == FocusMeetings {
			if m.selectedMeeting > 0 {
				m.selectedMeeting--
				return m, loadDetailCmd(m.store, m.meetings[m.selectedMeeting].ID)
			}
		} else if m.detailScroll > 0 {
			m.detailScroll--
		}
		return m, nil

	case KeyRefresh:
		return m, loadMeetingsCmd(m.store)
	}

	return m, nil
}

func (m Model) meetingsPanelWidth() int {
	if m.width == 0 {
		return 30
	}
	return max(24, m.width*35/100)
}

func (m Model) detailPanelWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(30, m.width-m.meetingsPanelWidth()-3)
}

func (m Model) contentHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + status(1) + divider(2) + error(1) + footer(1) + padding
	reserved := 7
	return max(5, m.height-reserved)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderMainContent())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	return ui.TitleStyle.Render("MEETING MINUTES")
}

func (m Model) renderStatusBar() string {
	status := ui.StatusStyle.Render(m.statusText)
	if !m.lastRefresh.IsZero() {
		status += ui.DimStyle.Render("  refreshed " + m.lastRefresh.Format("15:04:05"))
	}
	return status
}

func (m Model) renderMainContent() string {
	meetingsW := m.meetingsPanelWidth()
	detailW := m.detailPanelWidth()
	contentH := m.contentHeight()

	meetingsPanel := m.renderMeetingsPanel(meetingsW, contentH)
	detailPanel := m.renderDetailPanel(detailW, contentH)

	divider := ui.DividerStyle.Render("│")

	meetingLines := strings.Split(meetingsPanel, "\n")
	detailLines := strings.Split(detailPanel, "\n")

	var rows []string
	for i := 0; i < contentH; i++ {
		left := strings.Repeat(" ", meetingsW)
		if i < len(meetingLines) {
			left = meetingLines[i]
		}
		right := ""
		if i < len(detailLines) {
			right = detailLines[i]
		}
		rows = append(rows, left+divider+right)
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderMeetingsPanel(width, height int) string {
	var header string
	title := fmt.Sprintf("MEETINGS (%d)", len(m.meetings))
	if m.focusedPanel == FocusMeetings {
		header = ui.PanelTitleActiveStyle.Render(title)
	} else {
		header = ui.PanelTitleStyle.Render(title)
	}

	var lines []string
	lines = append(lines, padRight(header, width))

	if len(m.meetings) == 0 {
		lines = append(lines, ui.DimStyle.Render("  No meetings yet"))
		lines = append(lines, ui.DimStyle.Render("  Run `minutes seed` for demo data"))
	} else {
		for i, meeting := range m.meetings {
			date := ui.TimestampStyle.Render(meeting.Date)
			var line string
			if i == m.selectedMeeting && m.focusedPanel == FocusMeetings {
				line = ui.SelectedStyle.Render("> "+meeting.Title) + " " + date
			} else {
				line = "  " + meeting.Title + " " + date
			}
			lines = append(lines, truncateToWidth(line, width))
		}
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = padRight(l, width)
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderDetailPanel(width, height int) string {
	var header string
	if m.focusedPanel == FocusDetail {
		header = ui.PanelTitleActiveStyle.Render("DETAIL")
	} else {
		header = ui.PanelTitleStyle.Render("DETAIL")
	}

	lines := []string{header}

	if len(m.meetings) == 0 {
		lines = append(lines, ui.DimStyle.Render("  Nothing to show"))
	} else {
		body := m.detailBodyLines(max(10, width-4))

		// Apply scroll, keeping the header pinned.
		contentHeight := height - 1
		start := m.detailScroll
		if start > max(0, len(body)-contentHeight) {
			start = max(0, len(body)-contentHeight)
		}
		end := min(len(body), start+contentHeight)
		for _, l := range body[start:end] {
			lines = append(lines, "  "+l)
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// detailBodyLines builds the unscrolled detail text for the selected meeting.
func (m Model) detailBodyLines(width int) []string {
	meeting := m.meetings[m.selectedMeeting]

	var lines []string
	lines = append(lines, ui.TitleStyle.Render(meeting.Title))

	when := meeting.Date
	if meeting.Time != "" {
		when += " " + meeting.Time
	}
	lines = append(lines, ui.TimestampStyle.Render(when))

	if len(meeting.Attendees) > 0 {
		lines = append(lines, "Attendees: "+strings.Join(meeting.Attendees, ", "))
	}
	if len(meeting.Tags) > 0 {
		lines = append(lines, "Tags: "+ui.TagStyle.Render(strings.Join(meeting.Tags, " ")))
	}
	if meeting.Content != "" {
		lines = append(lines, "")
		lines = append(lines, wrapText(meeting.Content, width)...)
	}

	lines = append(lines, "")
	lines = append(lines, ui.PanelTitleStyle.Render("SUMMARY"))
	if m.detailFor != meeting.ID || m.detailProcess == nil {
		lines = append(lines, ui.DimStyle.Render("No summary process recorded"))
		return lines
	}

	p := m.detailProcess
	lines = append(lines, "Status: "+renderStatus(p.Status))
	if p.EndTime != nil {
		elapsed := p.EndTime.Sub(p.StartTime).Round(time.Millisecond)
		lines = append(lines, ui.DimStyle.Render(fmt.Sprintf("Finished %s (%s, %d chunks)",
			p.EndTime.Format("2006-01-02 15:04:05"), elapsed, p.ChunkCount)))
	}
	if p.Error != "" {
		lines = append(lines, ui.ErrorTextStyle.Render("Error: "+p.Error))
	}
	if summary, ok := p.Result["summary"].(string); ok && summary != "" {
		lines = append(lines, "")
		lines = append(lines, wrapText(summary, width)...)
	}

	if m.detailTranscript != nil {
		lines = append(lines, "")
		lines = append(lines, ui.PanelTitleStyle.Render("TRANSCRIPT"))
		lines = append(lines, ui.DimStyle.Render(m.detailTranscript.ModelName))
		lines = append(lines, wrapText(m.detailTranscript.Text, width)...)
	}

	return lines
}

func renderStatus(s db.ProcessStatus) string {
	switch s {
	case db.StatusCompleted:
		return ui.CompletedStyle.Render(string(s))
	case db.StatusFailed:
		return ui.FailedStyle.Render(string(s))
	default:
		return ui.PendingStyle.Render(string(s))
	}
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	var parts []string
	parts = append(parts, ui.FooterKeyStyle.Render("j/k")+ui.FooterDescStyle.Render(" Nav"))
	parts = append(parts, ui.FooterKeyStyle.Render("Tab")+ui.FooterDescStyle.Render(" Focus"))
	parts = append(parts, ui.FooterKeyStyle.Render("↑↓")+ui.FooterDescStyle.Render(" Scroll"))
	parts = append(parts, ui.FooterKeyStyle.Render("r")+ui.FooterDescStyle.Render(" Refresh"))
	parts = append(parts, ui.FooterKeyStyle.Render("q")+ui.FooterDescStyle.Render(" Quit"))
	return strings.Join(parts, "  ")
}

// Helpers

func padRight(s string, width int) string {
	// Visible length, ignoring ANSI codes.
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
