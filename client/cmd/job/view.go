package job

import (
	"fmt"
	"strconv"

	"github.com/xlab/treeprint"

	"github.com/goto/jobtrail/client/cmd/internal/printer"
	"github.com/goto/jobtrail/core/scheduler"
)

type stepView struct {
	StepID      int    `json:"step_id" yaml:"step_id"`
	StepName    string `json:"step_name" yaml:"step_name"`
	State       string `json:"state" yaml:"state"`
	Status      string `json:"status" yaml:"status"`
	Duration    string `json:"duration" yaml:"duration"`
	Message     string `json:"message" yaml:"message"`
	Package     string `json:"package,omitempty" yaml:"package,omitempty"`
	ExecutionID string `json:"execution_id,omitempty" yaml:"execution_id,omitempty"`
	Execution   string `json:"execution_status,omitempty" yaml:"execution_status,omitempty"`
	Correlation string `json:"correlation" yaml:"correlation"`
}

type timelineView struct {
	JobName    string     `json:"job_name" yaml:"job_name"`
	InstanceID int64      `json:"instance_id" yaml:"instance_id"`
	Steps      []stepView `json:"steps" yaml:"steps"`
}

func newTimelineView(timeline *scheduler.RunTimeline) *timelineView {
	view := &timelineView{
		JobName:    timeline.JobName.String(),
		InstanceID: int64(timeline.InstanceID),
		Steps:      make([]stepView, len(timeline.Steps)),
	}
	for i, entry := range timeline.Steps {
		step := stepView{
			StepID:      entry.StepID,
			StepName:    entry.StepName,
			State:       entry.State.String(),
			Status:      entry.StatusText,
			Duration:    entry.FormattedDuration,
			Message:     entry.Message,
			Correlation: entry.Correlation.String(),
		}
		if entry.Package != nil {
			step.Package = entry.Package.Path()
		}
		if entry.ExecutionID != nil {
			step.ExecutionID = entry.ExecutionID.String()
		}
		if entry.ExecutionStatus != nil {
			step.Execution = entry.ExecutionStatus.String()
		}
		view.Steps[i] = step
	}
	return view
}

func (*timelineView) Header() []string {
	return []string{"Step", "Name", "Status", "Duration", "SSIS Execution", "Correlation"}
}

func (v *timelineView) Rows() [][]string {
	rows := make([][]string, len(v.Steps))
	for i, step := range v.Steps {
		execution := step.ExecutionID
		if step.Execution != "" {
			execution = fmt.Sprintf("%s (%s)", step.ExecutionID, step.Execution)
		}
		rows[i] = []string{
			strconv.Itoa(step.StepID),
			step.StepName,
			printer.Status(step.Status),
			step.Duration,
			execution,
			step.Correlation,
		}
	}
	return rows
}

func (v *timelineView) Tree() treeprint.Tree {
	tree := treeprint.New()
	run := tree.AddBranch(fmt.Sprintf("%s #%d", v.JobName, v.InstanceID))
	for _, step := range v.Steps {
		branch := run.AddBranch(fmt.Sprintf("%d. %s [%s]", step.StepID, step.StepName, printer.Status(step.Status)))
		branch.AddNode("duration: " + step.Duration)
		if step.Message != "" {
			branch.AddNode("message: " + step.Message)
		}
		if step.Package != "" {
			pkg := branch.AddBranch("package: " + step.Package)
			if step.ExecutionID != "" {
				pkg.AddNode(fmt.Sprintf("execution %s %s", step.ExecutionID, printer.Status(step.Execution)))
			}
			pkg.AddNode("correlation: " + step.Correlation)
		}
	}
	return tree
}

type runView struct {
	JobName     string `json:"job_name" yaml:"job_name"`
	Category    string `json:"category" yaml:"category"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	InstanceID  int64  `json:"instance_id" yaml:"instance_id"`
	Status      string `json:"status" yaml:"status"`
	LastRun     string `json:"last_run" yaml:"last_run"`
	Duration    string `json:"duration" yaml:"duration"`
	Trend       string `json:"trend" yaml:"trend"`
	TrendDiff   string `json:"trend_diff,omitempty" yaml:"trend_diff,omitempty"`
	LastMessage string `json:"message" yaml:"message"`
}

type runsView []runView

func newRunsView(reports []*scheduler.JobRunReport) runsView {
	view := make(runsView, len(reports))
	for i, report := range reports {
		view[i] = runView{
			JobName:     report.JobName.String(),
			Category:    report.Category,
			Enabled:     report.Enabled,
			InstanceID:  int64(report.InstanceID),
			Status:      report.Status.String(),
			LastRun:     report.LastRunLabel,
			Duration:    report.FormattedDuration(),
			Trend:       report.DurationTrend.Trend.String(),
			TrendDiff:   report.DurationTrend.Diff(),
			LastMessage: report.Message,
		}
	}
	return view
}

func (runsView) Header() []string {
	return []string{"Job", "Category", "Instance", "Status", "Last Run", "Duration", "Trend"}
}

func (v runsView) Rows() [][]string {
	rows := make([][]string, len(v))
	for i, run := range v {
		rows[i] = []string{
			run.JobName,
			run.Category,
			strconv.FormatInt(run.InstanceID, 10),
			printer.Status(run.Status),
			run.LastRun,
			run.Duration,
			printer.Trend(run.Trend, run.TrendDiff),
		}
	}
	return rows
}

type historyView struct {
	InstanceID int64  `json:"instance_id" yaml:"instance_id"`
	StepID     int    `json:"step_id" yaml:"step_id"`
	StepName   string `json:"step_name" yaml:"step_name"`
	Started    string `json:"started" yaml:"started"`
	Status     string `json:"status" yaml:"status"`
	Duration   string `json:"duration" yaml:"duration"`
	Message    string `json:"message" yaml:"message"`
}

type historyListView []historyView

func newHistoryView(entries []*scheduler.HistoryEntry) historyListView {
	view := make(historyListView, len(entries))
	for i, entry := range entries {
		view[i] = historyView{
			InstanceID: int64(entry.Record.InstanceID),
			StepID:     entry.Record.StepID,
			StepName:   entry.Record.StepName,
			Started:    entry.Timestamp,
			Status:     entry.StatusText,
			Duration:   entry.FormattedDuration,
			Message:    entry.Record.Message,
		}
	}
	return view
}

func (historyListView) Header() []string {
	return []string{"Instance", "Step", "Name", "Started", "Status", "Duration"}
}

func (v historyListView) Rows() [][]string {
	rows := make([][]string, len(v))
	for i, entry := range v {
		rows[i] = []string{
			strconv.FormatInt(entry.InstanceID, 10),
			strconv.Itoa(entry.StepID),
			entry.StepName,
			entry.Started,
			printer.Status(entry.Status),
			entry.Duration,
		}
	}
	return rows
}

type statsView struct {
	Days            int     `json:"days" yaml:"days"`
	Total           int64   `json:"total_executions" yaml:"total_executions"`
	Failed          int64   `json:"failed_count" yaml:"failed_count"`
	Succeeded       int64   `json:"succeeded_count" yaml:"succeeded_count"`
	Running         int64   `json:"running_count" yaml:"running_count"`
	AverageDuration string  `json:"avg_duration" yaml:"avg_duration"`
	SuccessRate     float64 `json:"success_rate" yaml:"success_rate"`
}

func newStatsView(days int, stats *scheduler.JobStats) *statsView {
	return &statsView{
		Days:            days,
		Total:           stats.TotalJobs,
		Failed:          stats.FailedJobs,
		Succeeded:       stats.SucceededJobs,
		Running:         stats.RunningJobs,
		AverageDuration: stats.AverageDuration,
		SuccessRate:     stats.SuccessRate,
	}
}

func (*statsView) Header() []string {
	return []string{"Metric", "Value"}
}

func (v *statsView) Rows() [][]string {
	return [][]string{
		{"Window (days)", strconv.Itoa(v.Days)},
		{"Total", strconv.FormatInt(v.Total, 10)},
		{"Failed", strconv.FormatInt(v.Failed, 10)},
		{"Succeeded", strconv.FormatInt(v.Succeeded, 10)},
		{"Running", strconv.FormatInt(v.Running, 10)},
		{"Average Duration", v.AverageDuration},
		{"Success Rate", strconv.FormatFloat(v.SuccessRate, 'f', -1, 64) + "%"},
	}
}
