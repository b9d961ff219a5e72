package scheduler

import (
	"time"

	"github.com/goto/jobtrail/core/catalog"
	"github.com/goto/jobtrail/internal/lib/packed"
)

// TrendWindowDays is the trailing window of the average duration a run is compared with
const TrendWindowDays = 30

// JobRun is the outcome row of one run together with its job definition
type JobRun struct {
	JobID      JobID
	JobName    JobName
	Enabled    bool
	Category   string
	InstanceID InstanceID

	RunDate     int
	RunTime     int
	RunDuration int
	Status      RunStatus
	Message     string

	// AverageSeconds is the mean duration over TrendWindowDays of finished runs, nil when there are none
	AverageSeconds *float64
}

// LastRun renders the start of the run in the scheduler location, Never when it has no valid start
func (r *JobRun) LastRun(loc *time.Location) string {
	if r.RunDate == 0 {
		return NeverRun
	}
	start, err := packed.Timestamp(r.RunDate, r.RunTime, loc)
	if err != nil {
		return NeverRun
	}
	return start.Format(LastRunFormat)
}

func (r *JobRun) FormattedDuration() string {
	return packed.FormatDuration(r.RunDuration)
}

// Trend is always normal for runs without a duration
func (r *JobRun) Trend(analyzer TrendAnalyzer) DurationTrend {
	if r.RunDuration <= 0 {
		return DurationTrend{Trend: TrendNormal}
	}
	return analyzer.Analyze(float64(packed.SecondsOf(r.RunDuration)), r.AverageSeconds)
}

// JobRunReport is a job run annotated for listing
type JobRunReport struct {
	*JobRun
	LastRunLabel  string
	DurationTrend DurationTrend
}

func NewJobRunReport(run *JobRun, loc *time.Location, analyzer TrendAnalyzer) *JobRunReport {
	return &JobRunReport{
		JobRun:        run,
		LastRunLabel:  run.LastRun(loc),
		DurationTrend: run.Trend(analyzer),
	}
}

// RunFilter selects outcome rows from the start of the day `Days` days ago, 0 means today
type RunFilter struct {
	Days     int
	Category string
}

// Since is the first day included by the filter
func (f RunFilter) Since(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -f.Days)
}

// StepExecutionRef is a step history row mentioning a catalog execution id in its message
type StepExecutionRef struct {
	InstanceID  InstanceID
	StepName    string
	RunDate     int
	RunTime     int
	Status      RunStatus
	Message     string
	ExecutionID *catalog.ExecutionID
}

func NewStepExecutionRef(record *HistoryRecord) *StepExecutionRef {
	ref := &StepExecutionRef{
		InstanceID: record.InstanceID,
		StepName:   record.StepName,
		RunDate:    record.RunDate,
		RunTime:    record.RunTime,
		Status:     record.Status,
		Message:    record.Message,
	}
	if id, ok := ExtractExecutionID(record.Message); ok {
		ref.ExecutionID = &id
	}
	return ref
}
