package scheduler

import (
	"sort"
	"time"

	"github.com/goto/jobtrail/core/catalog"
)

const DefaultCorrelationSlack = 2 * time.Minute

// CorrelationWindow bounds the start time of catalog executions a run could have triggered
type CorrelationWindow struct {
	Start time.Time
	End   time.Time
}

// NewCorrelationWindow spans the run from its local start to start + duration + slack.
// Runs without a valid start or with a zero duration have no window.
func NewCorrelationWindow(outcome *HistoryRecord, loc *time.Location, slack time.Duration) (CorrelationWindow, bool) {
	if outcome == nil || outcome.RunDuration <= 0 {
		return CorrelationWindow{}, false
	}

	start, err := outcome.StartTime(loc)
	if err != nil {
		return CorrelationWindow{}, false
	}

	return CorrelationWindow{
		Start: start,
		End:   start.Add(outcome.Duration() + slack),
	}, true
}

// UTC converts the wall clock bounds into the absolute reference used by the catalog
func (w CorrelationWindow) UTC() CorrelationWindow {
	return CorrelationWindow{
		Start: w.Start.UTC(),
		End:   w.End.UTC(),
	}
}

func (w CorrelationWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ExpectedExecutionStatus maps a step status onto the catalog status the triggered
// execution should have. Any status other than failed or succeeded accepts every execution.
func ExpectedExecutionStatus(status *RunStatus) (catalog.ExecutionStatus, bool) {
	if status == nil {
		return 0, false
	}

	switch *status {
	case StatusFailed:
		return catalog.ExecutionFailed, true
	case StatusSucceeded:
		return catalog.ExecutionSucceeded, true
	default:
		return 0, false
	}
}

// CorrelationQuery is the candidate search for one step
type CorrelationQuery struct {
	Package catalog.PackageReference
	Window  CorrelationWindow
	Status  *catalog.ExecutionStatus
}

func NewCorrelationQuery(entry *StepTimelineEntry, window CorrelationWindow) CorrelationQuery {
	query := CorrelationQuery{
		Window: window.UTC(),
	}
	if entry.Package != nil {
		query.Package = *entry.Package
	}
	if status, ok := ExpectedExecutionStatus(entry.Status); ok {
		query.Status = &status
	}
	return query
}

func (q CorrelationQuery) Matches(execution *catalog.Execution) bool {
	if !q.Package.Matches(execution) {
		return false
	}
	if !q.Window.Contains(execution.StartTime) {
		return false
	}
	return q.Status == nil || *q.Status == execution.Status
}

// BestCandidate keeps the candidates matching the query and picks the earliest started one.
// No match is a normal outcome and is reported with false.
func BestCandidate(query CorrelationQuery, candidates []*catalog.Execution) (*catalog.Execution, bool) {
	var matched []*catalog.Execution
	for _, candidate := range candidates {
		if candidate != nil && query.Matches(candidate) {
			matched = append(matched, candidate)
		}
	}
	if len(matched) == 0 {
		return nil, false
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StartTime.Before(matched[j].StartTime)
	})
	return matched[0], true
}
