package app

import "github.com/Zackriya-Solutions/meeting-minutes/internal/db"

// MeetingsLoadedMsg carries the meeting list read from the database.
type MeetingsLoadedMsg struct {
	Meetings []db.Meeting
}

// DetailLoadedMsg carries the summary process and transcript linked to one
// meeting. Process and Transcript are nil when no summarization has been
// recorded for it.
type DetailLoadedMsg struct {
	MeetingID  string
	Process    *db.SummaryProcess
	Transcript *db.Transcript
}

// StoreErrorMsg is sent when a database read fails.
type StoreErrorMsg struct {
	Err error
}

// RefreshTickMsg triggers a periodic reload from the database.
type RefreshTickMsg struct{}
