package scheduler

import (
	"sort"
	"time"

	"github.com/goto/jobtrail/internal/lib/packed"
)

// HistoryRecord is one row of the agent job history. Times are packed integers
// in the wall clock of the scheduler host.
type HistoryRecord struct {
	InstanceID   InstanceID
	JobID        JobID
	StepID       int
	StepName     string
	RunDate      int
	RunTime      int
	RunDuration  int
	Status       RunStatus
	Message      string
	SQLMessageID *int
	SQLSeverity  *int
}

func (r *HistoryRecord) IsOutcome() bool {
	return r.StepID == OutcomeStepID
}

// StartTime is the local start of the row, loc is the time zone of the scheduler host
func (r *HistoryRecord) StartTime(loc *time.Location) (time.Time, error) {
	return packed.Timestamp(r.RunDate, r.RunTime, loc)
}

func (r *HistoryRecord) Duration() time.Duration {
	return packed.Duration(r.RunDuration)
}

func (r *HistoryRecord) FormattedDuration() string {
	return packed.FormatDuration(r.RunDuration)
}

// Timestamp renders the start as yyyy-mm-dd hh:mm:ss, empty when the packed values are invalid
func (r *HistoryRecord) Timestamp() string {
	start, err := r.StartTime(time.UTC)
	if err != nil {
		return ""
	}
	return start.Format(DisplayTimeFormat)
}

// History holds the rows logged for one run instance keyed by step id
type History map[int]*HistoryRecord

// NewHistory indexes rows by step id, when a step was logged more than once
// (retries) the row with the highest instance id wins.
func NewHistory(records []*HistoryRecord) History {
	history := make(History, len(records))
	for _, record := range records {
		if existing, ok := history[record.StepID]; ok && existing.InstanceID > record.InstanceID {
			continue
		}
		history[record.StepID] = record
	}
	return history
}

func (h History) Outcome() (*HistoryRecord, bool) {
	record, ok := h[OutcomeStepID]
	return record, ok
}

func (h History) Step(stepID int) (*HistoryRecord, bool) {
	if stepID == OutcomeStepID {
		return nil, false
	}
	record, ok := h[stepID]
	return record, ok
}

// HistoryEntry is a history row prepared for listing, e.g. the history of a job
type HistoryEntry struct {
	Record            *HistoryRecord
	Timestamp         string
	FormattedDuration string
	StatusText        string
}

func NewHistoryEntry(record *HistoryRecord) *HistoryEntry {
	return &HistoryEntry{
		Record:            record,
		Timestamp:         record.Timestamp(),
		FormattedDuration: record.FormattedDuration(),
		StatusText:        record.Status.String(),
	}
}

// SortHistoryEntries orders by newest run first then by step id
func SortHistoryEntries(entries []*HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Record, entries[j].Record
		if a.RunDate != b.RunDate {
			return a.RunDate > b.RunDate
		}
		if a.RunTime != b.RunTime {
			return a.RunTime > b.RunTime
		}
		return a.StepID < b.StepID
	})
}
