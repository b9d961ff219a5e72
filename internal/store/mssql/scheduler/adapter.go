package scheduler

import (
	"github.com/goto/jobtrail/core/scheduler"
	"github.com/goto/jobtrail/internal/errors"
)

// uniqueidentifier columns are converted to text in the queries, the driver
// returns them in the mixed endian wire order otherwise
const (
	historyColumns = `h.instance_id, CONVERT(varchar(36), h.job_id) AS job_id, h.step_id, h.step_name,
	h.run_date, h.run_time, h.run_duration, h.run_status, ISNULL(h.message, '') AS message,
	h.sql_message_id, h.sql_severity`

	// packed HHMMSS duration to seconds
	durationSeconds = `((%[1]s.run_duration / 10000) * 3600 + ((%[1]s.run_duration / 100) %% 100) * 60 + %[1]s.run_duration %% 100)`
)

type historyRow struct {
	InstanceID   int64  `db:"instance_id"`
	JobID        string `db:"job_id"`
	StepID       int    `db:"step_id"`
	StepName     string `db:"step_name"`
	RunDate      int    `db:"run_date"`
	RunTime      int    `db:"run_time"`
	RunDuration  int    `db:"run_duration"`
	RunStatus    int    `db:"run_status"`
	Message      string `db:"message"`
	SQLMessageID *int   `db:"sql_message_id"`
	SQLSeverity  *int   `db:"sql_severity"`
}

func (r *historyRow) toHistoryRecord() (*scheduler.HistoryRecord, error) {
	jobID, err := scheduler.JobIDFrom(r.JobID)
	if err != nil {
		return nil, errors.AddErrContext(err, scheduler.EntityJobHistory, "invalid job id in history row")
	}

	return &scheduler.HistoryRecord{
		InstanceID:   scheduler.InstanceID(r.InstanceID),
		JobID:        jobID,
		StepID:       r.StepID,
		StepName:     r.StepName,
		RunDate:      r.RunDate,
		RunTime:      r.RunTime,
		RunDuration:  r.RunDuration,
		Status:       scheduler.RunStatusFrom(r.RunStatus),
		Message:      r.Message,
		SQLMessageID: r.SQLMessageID,
		SQLSeverity:  r.SQLSeverity,
	}, nil
}

func toHistoryRecords(rows []*historyRow) ([]*scheduler.HistoryRecord, error) {
	records := make([]*scheduler.HistoryRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toHistoryRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

type jobRow struct {
	JobID    string `db:"job_id"`
	Name     string `db:"name"`
	Enabled  bool   `db:"enabled"`
	Category string `db:"category_name"`
}

type stepRow struct {
	StepID    int    `db:"step_id"`
	StepName  string `db:"step_name"`
	Command   string `db:"command"`
	Subsystem string `db:"subsystem"`
}

func (r *jobRow) toJob(steps []*stepRow) (*scheduler.Job, error) {
	jobID, err := scheduler.JobIDFrom(r.JobID)
	if err != nil {
		return nil, errors.AddErrContext(err, scheduler.EntityJob, "invalid job id in database")
	}

	job := &scheduler.Job{
		ID:       jobID,
		Name:     scheduler.JobName(r.Name),
		Enabled:  r.Enabled,
		Category: r.Category,
		Steps:    make([]scheduler.JobStep, len(steps)),
	}
	for i, step := range steps {
		job.Steps[i] = scheduler.JobStep{
			ID:        step.StepID,
			Name:      step.StepName,
			Command:   step.Command,
			Subsystem: step.Subsystem,
		}
	}
	return job, nil
}

type jobRunRow struct {
	JobID          string   `db:"job_id"`
	JobName        string   `db:"job_name"`
	Enabled        bool     `db:"enabled"`
	Category       string   `db:"category_name"`
	InstanceID     int64    `db:"instance_id"`
	RunDate        int      `db:"run_date"`
	RunTime        int      `db:"run_time"`
	RunDuration    int      `db:"run_duration"`
	RunStatus      int      `db:"run_status"`
	Message        string   `db:"message"`
	AverageSeconds *float64 `db:"avg_seconds"`
}

func (r *jobRunRow) toJobRun() (*scheduler.JobRun, error) {
	jobID, err := scheduler.JobIDFrom(r.JobID)
	if err != nil {
		return nil, errors.AddErrContext(err, scheduler.EntityJobRun, "invalid job id in database")
	}

	return &scheduler.JobRun{
		JobID:          jobID,
		JobName:        scheduler.JobName(r.JobName),
		Enabled:        r.Enabled,
		Category:       r.Category,
		InstanceID:     scheduler.InstanceID(r.InstanceID),
		RunDate:        r.RunDate,
		RunTime:        r.RunTime,
		RunDuration:    r.RunDuration,
		Status:         scheduler.RunStatusFrom(r.RunStatus),
		Message:        r.Message,
		AverageSeconds: r.AverageSeconds,
	}, nil
}

type runCountsRow struct {
	Total          int64    `db:"total_executions"`
	Failed         int64    `db:"failed_count"`
	Succeeded      int64    `db:"succeeded_count"`
	Running        int64    `db:"running_count"`
	AverageSeconds *float64 `db:"avg_seconds"`
}

func (r *runCountsRow) toRunCounts() scheduler.RunCounts {
	return scheduler.RunCounts{
		Total:          r.Total,
		Failed:         r.Failed,
		Succeeded:      r.Succeeded,
		Running:        r.Running,
		AverageSeconds: r.AverageSeconds,
	}
}
