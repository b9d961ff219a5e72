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
	getJobByID = `SELECT CONVERT(varchar(36), j.job_id) AS job_id, j.name, CAST(j.enabled AS bit) AS enabled,
	ISNULL(c.name, '') AS category_name
FROM msdb.dbo.sysjobs j
LEFT JOIN msdb.dbo.syscategories c ON j.category_id = c.category_id
WHERE j.job_id = CONVERT(uniqueidentifier, @p1)`

	getJobSteps = `SELECT s.step_id, s.step_name, ISNULL(s.command, '') AS command, s.subsystem
FROM msdb.dbo.sysjobsteps s
WHERE s.job_id = CONVERT(uniqueidentifier, @p1)
ORDER BY s.step_id ASC`
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// GetJob reads the job definition with its steps in step order
func (j *JobRepository) GetJob(ctx context.Context, jobID scheduler.JobID) (*scheduler.Job, error) {
	var row jobRow
	if err := sqlscan.Get(ctx, j.db, &row, getJobByID, jobID.String()); err != nil {
		if sqlscan.NotFound(err) {
			return nil, errors.NotFound(scheduler.EntityJob, "no job with id "+jobID.String())
		}
		return nil, mssql.UpstreamError(scheduler.EntityJob, "error while getting job", err)
	}

	var steps []*stepRow
	if err := sqlscan.Select(ctx, j.db, &steps, getJobSteps, jobID.String()); err != nil {
		return nil, mssql.UpstreamError(scheduler.EntityJobStep, "error while getting steps of job "+row.Name, err)
	}
	return row.toJob(steps)
}
