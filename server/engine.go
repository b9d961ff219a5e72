package server

import (
	"database/sql"
	"time"

	"github.com/goto/salt/log"

	"github.com/goto/jobtrail/config"
	catalogService "github.com/goto/jobtrail/core/catalog/service"
	"github.com/goto/jobtrail/core/scheduler"
	schedulerService "github.com/goto/jobtrail/core/scheduler/service"
	catalogRepo "github.com/goto/jobtrail/internal/store/mssql/catalog"
	schedulerRepo "github.com/goto/jobtrail/internal/store/mssql/scheduler"
)

// Engine holds the services shared by the api server and the cli
type Engine struct {
	JobRuns    *schedulerService.JobRunService
	Stats      *schedulerService.StatsService
	Executions *catalogService.ExecutionService
}

func NewEngine(l log.Logger, db *sql.DB, conf config.SchedulerConfig, loc *time.Location) *Engine {
	// Repos
	jobRepo := schedulerRepo.NewJobRepository(db)
	historyRepo := schedulerRepo.NewHistoryRepository(db)
	jobRunRepo := schedulerRepo.NewJobRunRepository(db)
	statsRepo := schedulerRepo.NewStatsRepository(db)
	executionRepo := catalogRepo.NewExecutionRepository(db)

	// Services
	correlator := schedulerService.NewExecutionCorrelator(l, executionRepo, loc, conf.CorrelationSlack)
	return &Engine{
		JobRuns: schedulerService.NewJobRunService(l, jobRepo, historyRepo, jobRunRepo, correlator,
			scheduler.NewTrendAnalyzer(conf.TrendThresholdPercent), loc),
		Stats:      schedulerService.NewStatsService(l, statsRepo, loc),
		Executions: catalogService.NewExecutionService(l, executionRepo),
	}
}
