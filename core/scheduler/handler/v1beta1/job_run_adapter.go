package v1beta1

import (
	"time"

	"github.com/goto/jobtrail/core/scheduler"
)

type jobRunResponse struct {
	JobID             string   `json:"job_id"`
	JobName           string   `json:"job_name"`
	Enabled           bool     `json:"enabled"`
	CategoryName      string   `json:"category_name"`
	InstanceID        int64    `json:"instance_id"`
	RunStatus         int      `json:"run_status"`
	StatusText        string   `json:"status_text"`
	RunDate           int      `json:"run_date"`
	RunTime           int      `json:"run_time"`
	RunDuration       int      `json:"run_duration"`
	Message           string   `json:"message"`
	AverageSeconds    *float64 `json:"avg_duration_seconds"`
	LastRun           string   `json:"last_run"`
	DurationFormatted string   `json:"duration_formatted"`
	DurationTrend     string   `json:"duration_trend"`
	DurationDiff      *string  `json:"duration_diff"`
}

func toJobRunResponse(report *scheduler.JobRunReport) jobRunResponse {
	resp := jobRunResponse{
		JobID:             report.JobID.String(),
		JobName:           report.JobName.String(),
		Enabled:           report.Enabled,
		CategoryName:      report.Category,
		InstanceID:        int64(report.InstanceID),
		RunStatus:         report.Status.Code(),
		StatusText:        report.Status.String(),
		RunDate:           report.RunDate,
		RunTime:           report.RunTime,
		RunDuration:       report.RunDuration,
		Message:           report.Message,
		AverageSeconds:    report.AverageSeconds,
		LastRun:           report.LastRunLabel,
		DurationFormatted: report.FormattedDuration(),
		DurationTrend:     report.DurationTrend.Trend.String(),
	}
	if diff := report.DurationTrend.Diff(); diff != "" {
		resp.DurationDiff = &diff
	}
	return resp
}

type statsResponse struct {
	TotalExecutions      int64   `json:"total_executions"`
	FailedCount          int64   `json:"failed_count"`
	SucceededCount       int64   `json:"succeeded_count"`
	RunningCount         int64   `json:"running_count"`
	AvgDurationFormatted string  `json:"avg_duration_formatted"`
	SuccessRate          float64 `json:"success_rate"`
}

func toStatsResponse(stats *scheduler.JobStats) statsResponse {
	return statsResponse{
		TotalExecutions:      stats.TotalJobs,
		FailedCount:          stats.FailedJobs,
		SucceededCount:       stats.SucceededJobs,
		RunningCount:         stats.RunningJobs,
		AvgDurationFormatted: stats.AverageDuration,
		SuccessRate:          stats.SuccessRate,
	}
}

type historyResponse struct {
	InstanceID        int64  `json:"instance_id"`
	StepID            int    `json:"step_id"`
	StepName          string `json:"step_name"`
	RunDate           int    `json:"run_date"`
	RunTime           int    `json:"run_time"`
	RunDuration       int    `json:"run_duration"`
	RunStatus         int    `json:"run_status"`
	StatusText        string `json:"status_text"`
	Message           string `json:"message"`
	SQLMessageID      *int   `json:"sql_message_id"`
	SQLSeverity       *int   `json:"sql_severity"`
	RunTimestamp      string `json:"run_timestamp"`
	DurationFormatted string `json:"duration_formatted"`
}

func toHistoryResponse(entry *scheduler.HistoryEntry) historyResponse {
	record := entry.Record
	return historyResponse{
		InstanceID:        int64(record.InstanceID),
		StepID:            record.StepID,
		StepName:          record.StepName,
		RunDate:           record.RunDate,
		RunTime:           record.RunTime,
		RunDuration:       record.RunDuration,
		RunStatus:         record.Status.Code(),
		StatusText:        entry.StatusText,
		Message:           record.Message,
		SQLMessageID:      record.SQLMessageID,
		SQLSeverity:       record.SQLSeverity,
		RunTimestamp:      entry.Timestamp,
		DurationFormatted: entry.FormattedDuration,
	}
}

type stepExecutionRefResponse struct {
	InstanceID  int64  `json:"instance_id"`
	StepName    string `json:"step_name"`
	RunDate     int    `json:"run_date"`
	RunTime     int    `json:"run_time"`
	RunStatus   int    `json:"run_status"`
	Message     string `json:"message"`
	ExecutionID *int64 `json:"execution_id,omitempty"`
}

func toStepExecutionRefResponse(ref *scheduler.StepExecutionRef) stepExecutionRefResponse {
	resp := stepExecutionRefResponse{
		InstanceID: int64(ref.InstanceID),
		StepName:   ref.StepName,
		RunDate:    ref.RunDate,
		RunTime:    ref.RunTime,
		RunStatus:  ref.Status.Code(),
		Message:    ref.Message,
	}
	if ref.ExecutionID != nil {
		id := int64(*ref.ExecutionID)
		resp.ExecutionID = &id
	}
	return resp
}

type timelineResponse struct {
	JobID      string         `json:"job_id"`
	JobName    string         `json:"job_name"`
	InstanceID int64          `json:"instance_id"`
	Steps      []stepResponse `json:"steps"`
}

type stepResponse struct {
	StepID            int    `json:"step_id"`
	StepName          string `json:"step_name"`
	State             string `json:"state"`
	Executed          bool   `json:"executed"`
	RunStatus         *int   `json:"run_status"`
	StatusText        string `json:"status_text"`
	RunDuration       *int   `json:"run_duration"`
	DurationFormatted string `json:"duration_formatted"`
	Message           string `json:"message"`
	SQLMessageID      *int   `json:"sql_message_id"`
	SQLSeverity       *int   `json:"sql_severity"`
	Command           string `json:"command"`
	CommandPreview    string `json:"command_preview"`
	Subsystem         string `json:"subsystem"`

	PackagePath         string `json:"ssis_package_path,omitempty"`
	ExecutionID         *int64 `json:"ssis_execution_id,omitempty"`
	ExecutionStatus     *int   `json:"ssis_execution_status,omitempty"`
	ExecutionStatusText string `json:"ssis_execution_status_text,omitempty"`
	ExecutionStartTime  string `json:"ssis_start_time,omitempty"`
	Correlation         string `json:"correlation"`
}

func toTimelineResponse(timeline *scheduler.RunTimeline) timelineResponse {
	steps := make([]stepResponse, len(timeline.Steps))
	for i, entry := range timeline.Steps {
		steps[i] = toStepResponse(entry)
	}
	return timelineResponse{
		JobID:      timeline.JobID.String(),
		JobName:    timeline.JobName.String(),
		InstanceID: int64(timeline.InstanceID),
		Steps:      steps,
	}
}

func toStepResponse(entry *scheduler.StepTimelineEntry) stepResponse {
	resp := stepResponse{
		StepID:            entry.StepID,
		StepName:          entry.StepName,
		State:             entry.State.String(),
		Executed:          entry.Executed(),
		StatusText:        entry.StatusText,
		DurationFormatted: entry.FormattedDuration,
		Message:           entry.Message,
		SQLMessageID:      entry.SQLMessageID,
		SQLSeverity:       entry.SQLSeverity,
		Command:           entry.Command,
		CommandPreview:    entry.CommandPreview(),
		Subsystem:         entry.Subsystem,
		Correlation:       entry.Correlation.String(),
	}
	if entry.Status != nil {
		code := entry.Status.Code()
		resp.RunStatus = &code
	}
	if entry.State == scheduler.StepExecuted {
		duration := entry.RunDuration
		resp.RunDuration = &duration
	}
	if entry.Package != nil {
		resp.PackagePath = entry.Package.Path()
	}
	if entry.ExecutionID != nil {
		id := int64(*entry.ExecutionID)
		resp.ExecutionID = &id
	}
	if entry.ExecutionStatus != nil {
		code := entry.ExecutionStatus.Code()
		resp.ExecutionStatus = &code
		resp.ExecutionStatusText = entry.ExecutionStatus.String()
	}
	if entry.ExecutionStartTime != nil {
		resp.ExecutionStartTime = entry.ExecutionStartTime.UTC().Format(time.DateTime)
	}
	return resp
}
