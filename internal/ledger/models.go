package ledger

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a batch item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConverting Status = "converting"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

var allStatuses = []Status{
	StatusPending,
	StatusConverting,
	StatusCompleted,
	StatusFailed,
	StatusSkipped,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Item represents one input file within a batch.
type Item struct {
	ID              int64
	BatchID         string
	SourcePath      string
	DisplayTitle    string
	Status          Status
	OutputPath      string
	ErrorMessage    string
	ProgressPercent float64
	ProgressMessage string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Summary describes aggregated item counts per lifecycle state for one batch.
type Summary struct {
	Total      int
	Pending    int
	Converting int
	Completed  int
	Failed     int
	Skipped    int
}

// Finished returns the number of items that reached a terminal state.
func (s Summary) Finished() int {
	return s.Completed + s.Failed + s.Skipped
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status is one of the end states.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// SetConverting marks the item as in flight and resets progress fields.
func (i *Item) SetConverting(message string) {
	i.Status = StatusConverting
	i.ProgressPercent = 0
	i.ProgressMessage = message
	i.ErrorMessage = ""
}

// SetCompleted records a successful extraction and its output path.
func (i *Item) SetCompleted(outputPath string) {
	i.Status = StatusCompleted
	i.OutputPath = outputPath
	i.ProgressPercent = 100
	i.ProgressMessage = "completed"
	i.ErrorMessage = ""
}

// SetFailed marks the item as failed with the given reason.
func (i *Item) SetFailed(reason string) {
	i.Status = StatusFailed
	i.ErrorMessage = reason
	i.ProgressPercent = 0
	i.ProgressMessage = reason
}

// SetSkipped marks the item as skipped with the given reason.
func (i *Item) SetSkipped(reason string) {
	i.Status = StatusSkipped
	i.ErrorMessage = reason
	i.ProgressMessage = reason
}
