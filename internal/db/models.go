// Package db provides SQLite persistence for meetings, summary processes,
// and their transcripts. All records live in a single database file.
package db

import "time"

// ProcessStatus is the lifecycle state of a summary process.
type ProcessStatus string

const (
	StatusPending   ProcessStatus = "PENDING"
	StatusCompleted ProcessStatus = "COMPLETED"
	StatusFailed    ProcessStatus = "FAILED"
)

// Terminal reports whether the status ends the process lifecycle.
func (s ProcessStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Meeting represents a meeting record. Date is a calendar date ("2006-01-02")
// and Time an optional wall-clock time ("15:04"), both kept as entered.
// Soft-deleted meetings never come back from reads.
type Meeting struct {
	ID        string
	Title     string
	Date      string
	Time      string
	Attendees []string
	Tags      []string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SummaryProcess tracks one asynchronous summarization run. EndTime is set
// exactly when the status becomes terminal.
type SummaryProcess struct {
	ID             string
	Status         ProcessStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Result         map[string]any
	Error          string
	StartTime      time.Time
	EndTime        *time.Time
	ChunkCount     int
	ProcessingTime float64
	Metadata       map[string]any
}

// Transcript is the raw transcript behind a summary process, keyed 1:1 by
// the process id. MeetingName is empty until set after the fact.
type Transcript struct {
	ProcessID   string
	MeetingName string
	Text        string
	Model       string
	ModelName   string
	ChunkSize   int
	Overlap     int
	CreatedAt   time.Time
}
