package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/goto/jobtrail/core/scheduler"
	"github.com/goto/jobtrail/internal/lib/packed"
	"github.com/goto/jobtrail/internal/store/mssql"
)

// the trend window is evaluated against the server clock, the same clock the agent packs run dates with
var getJobRuns = fmt.Sprintf(`SELECT CONVERT(varchar(36), j.job_id) AS job_id, j.name AS job_name,
	CAST(j.enabled AS bit) AS enabled, ISNULL(c.name, '') AS category_name,
	h.instance_id, h.run_date, h.run_time, h.run_duration, h.run_status, ISNULL(h.message, '') AS message,
	(SELECT AVG(CAST(%s AS FLOAT))
	 FROM msdb.dbo.sysjobhistory h2
	 WHERE h2.job_id = j.job_id
	 AND h2.step_id = 0
	 AND h2.run_status IN (0, 1)
	 AND h2.run_date >= CONVERT(int, CONVERT(char(8), DATEADD(day, -@p2, GETDATE()), 112))
	) AS avg_seconds
FROM msdb.dbo.sysjobs j
LEFT JOIN msdb.dbo.syscategories c ON j.category_id = c.category_id
INNER JOIN msdb.dbo.sysjobhistory h ON j.job_id = h.job_id
WHERE h.step_id = 0
AND h.run_date >= @p1
AND (@p3 = '' OR c.name = @p3)
ORDER BY h.run_date DESC, h.run_time DESC, h.instance_id DESC`, fmt.Sprintf(durationSeconds, "h2"))

type JobRunRepository struct {
	db *sql.DB
}

func NewJobRunRepository(db *sql.DB) *JobRunRepository {
	return &JobRunRepository{db: db}
}

// GetJobRuns reads the outcome rows from the day of since onwards, category is ignored when empty
func (j *JobRunRepository) GetJobRuns(ctx context.Context, since time.Time, category string) ([]*scheduler.JobRun, error) {
	var rows []*jobRunRow
	err := sqlscan.Select(ctx, j.db, &rows, getJobRuns, packed.DateOf(since), scheduler.TrendWindowDays, category)
	if err != nil {
		return nil, mssql.UpstreamError(scheduler.EntityJobRun, "error while getting job runs", err)
	}

	runs := make([]*scheduler.JobRun, 0, len(rows))
	for _, row := range rows {
		run, err := row.toJobRun()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}
