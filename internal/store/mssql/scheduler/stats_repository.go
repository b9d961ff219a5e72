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

var getRunCounts = fmt.Sprintf(`SELECT COUNT(*) AS total_executions,
	ISNULL(SUM(CASE WHEN h.run_status = 0 THEN 1 ELSE 0 END), 0) AS failed_count,
	ISNULL(SUM(CASE WHEN h.run_status = 1 THEN 1 ELSE 0 END), 0) AS succeeded_count,
	ISNULL(SUM(CASE WHEN h.run_status = 4 THEN 1 ELSE 0 END), 0) AS running_count,
	AVG(CASE WHEN h.run_status IN (0, 1) THEN CAST(%s AS FLOAT) ELSE NULL END) AS avg_seconds
FROM msdb.dbo.sysjobhistory h
WHERE h.step_id = 0
AND h.run_date >= @p1`, fmt.Sprintf(durationSeconds, "h"))

const getCategories = `SELECT DISTINCT c.name
FROM msdb.dbo.syscategories c
INNER JOIN msdb.dbo.sysjobs j ON c.category_id = j.category_id
WHERE c.category_class = 1
ORDER BY c.name`

type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetRunCounts aggregates the outcome rows from the day of since onwards
func (s *StatsRepository) GetRunCounts(ctx context.Context, since time.Time) (scheduler.RunCounts, error) {
	var row runCountsRow
	if err := sqlscan.Get(ctx, s.db, &row, getRunCounts, packed.DateOf(since)); err != nil {
		return scheduler.RunCounts{}, mssql.UpstreamError(scheduler.EntityStats, "error while counting job runs", err)
	}
	return row.toRunCounts(), nil
}

// GetCategories lists the local job categories that have at least one job
func (s *StatsRepository) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := sqlscan.Select(ctx, s.db, &categories, getCategories); err != nil {
		return nil, mssql.UpstreamError(scheduler.EntityCategory, "error while getting categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
