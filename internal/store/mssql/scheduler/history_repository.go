package scheduler

import (
	"context"
	"database/sql"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/goto/jobtrail/core/scheduler"
	"github.com/goto/jobtrail/internal/errors"
	"github.com/goto/jobtrail/internal/store/mssql"
)

const (
	getOutcome = `SELECT ` + historyColumns + `
FROM msdb.dbo.sysjobhistory h
WHERE h.instance_id = @p1 AND h.step_id = 0`

	// step rows of a run are logged before its outcome row and after the outcome of the previous run
	getRunHistory = `SELECT ` + historyColumns + `
FROM msdb.dbo.sysjobhistory h
WHERE h.job_id = CONVERT(uniqueidentifier, @p1)
AND h.step_id > 0
AND h.instance_id < @p2
AND h.instance_id > ISNULL((
	SELECT MAX(p.instance_id) FROM msdb.dbo.sysjobhistory p
	WHERE p.job_id = CONVERT(uniqueidentifier, @p1) AND p.step_id = 0 AND p.instance_id < @p2
), 0)
ORDER BY h.step_id ASC, h.instance_id ASC`

	getJobHistory = `SELECT ` + historyColumns + `
FROM msdb.dbo.sysjobs j
JOIN msdb.dbo.sysjobhistory h ON j.job_id = h.job_id
WHERE j.name = @p1
ORDER BY h.run_date DESC, h.run_time DESC, h.step_id ASC`

	getExecutionMentions = `SELECT ` + historyColumns + `
FROM msdb.dbo.sysjobs j
JOIN msdb.dbo.sysjobhistory h ON j.job_id = h.job_id
WHERE j.name = @p1
AND h.step_id > 0
AND h.message LIKE '%execution_id%'
ORDER BY h.run_date DESC, h.run_time DESC`
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// GetOutcome reads the job outcome row (step 0) of a run instance
func (h *HistoryRepository) GetOutcome(ctx context.Context, instanceID scheduler.InstanceID) (*scheduler.HistoryRecord, error) {
	var row historyRow
	if err := sqlscan.Get(ctx, h.db, &row, getOutcome, int64(instanceID)); err != nil {
		if sqlscan.NotFound(err) {
			return nil, errors.NotFound(scheduler.EntityJobRun, "no run with instance id "+instanceID.String())
		}
		return nil, mssql.UpstreamError(scheduler.EntityJobRun, "error while getting run outcome", err)
	}
	return row.toHistoryRecord()
}

// GetRunHistory reads the step rows logged for the run ending with outcome
func (h *HistoryRepository) GetRunHistory(ctx context.Context, outcome *scheduler.HistoryRecord) ([]*scheduler.HistoryRecord, error) {
	var rows []*historyRow
	if err := sqlscan.Select(ctx, h.db, &rows, getRunHistory, outcome.JobID.String(), int64(outcome.InstanceID)); err != nil {
		return nil, mssql.UpstreamError(scheduler.EntityJobHistory, "error while getting history of run "+outcome.InstanceID.String(), err)
	}
	return toHistoryRecords(rows)
}

func (h *HistoryRepository) GetJobHistory(ctx context.Context, jobName scheduler.JobName) ([]*scheduler.HistoryRecord, error) {
	var rows []*historyRow
	if err := sqlscan.Select(ctx, h.db, &rows, getJobHistory, jobName.String()); err != nil {
		return nil, mssql.UpstreamError(scheduler.EntityJobHistory, "error while getting history of job "+jobName.String(), err)
	}
	return toHistoryRecords(rows)
}

// GetExecutionMentions reads step rows whose message mentions a catalog execution id
func (h *HistoryRepository) GetExecutionMentions(ctx context.Context, jobName scheduler.JobName) ([]*scheduler.HistoryRecord, error) {
	var rows []*historyRow
	if err := sqlscan.Select(ctx, h.db, &rows, getExecutionMentions, jobName.String()); err != nil {
		return nil, mssql.UpstreamError(scheduler.EntityJobHistory, "error while getting execution references of job "+jobName.String(), err)
	}
	return toHistoryRecords(rows)
}
