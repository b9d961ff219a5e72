package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goto/jobtrail/core/catalog"
	"github.com/goto/jobtrail/core/scheduler"
	"github.com/goto/jobtrail/core/scheduler/service"
	"github.com/goto/jobtrail/internal/errors"
)

func TestJobRunService(t *testing.T) {
	ctx := context.Background()
	logger := log.NewNoop()
	analyzer := scheduler.NewTrendAnalyzer(scheduler.DefaultTrendThresholdPercent)
	jobID := scheduler.JobID(uuid.MustParse("3f2c8a5e-0d3b-4a3c-9a51-6e0f4c7d2b10"))
	jobName := scheduler.JobName("Nightly ETL")
	instanceID := scheduler.InstanceID(1040)

	outcome := &scheduler.HistoryRecord{
		InstanceID:  instanceID,
		JobID:       jobID,
		StepID:      scheduler.OutcomeStepID,
		RunDate:     20240115,
		RunTime:     100000,
		RunDuration: 3000,
		Status:      scheduler.StatusFailed,
		Message:     "The job failed.  The last step to run was step 2 (Load).",
	}
	job := &scheduler.Job{
		ID:       jobID,
		Name:     jobName,
		Enabled:  true,
		Category: "Finance",
		Steps: []scheduler.JobStep{
			{ID: 1, Name: "Extract", Command: "EXEC dbo.extract", Subsystem: "TSQL"},
			{ID: 2, Name: "Load", Command: `/ISSERVER "\SSISDB\Finance\Ledger\Load.dtsx" /SERVER sql01`, Subsystem: "SSIS"},
			{ID: 3, Name: "Publish", Command: "EXEC dbo.publish", Subsystem: "TSQL"},
		},
	}

	t.Run("GetStepTimeline", func(t *testing.T) {
		t.Run("should return error when the run does not exist", func(t *testing.T) {
			historyRepo := new(mockHistoryRepository)
			historyRepo.On("GetOutcome", mock.Anything, instanceID).
				Return(nil, errors.NotFound(scheduler.EntityJobRun, "run 1040 not found"))
			defer historyRepo.AssertExpectations(t)

			runService := service.NewJobRunService(logger, nil, historyRepo, nil, nil, analyzer, time.UTC)

			timeline, err := runService.GetStepTimeline(ctx, instanceID)

			assert.Nil(t, timeline)
			assert.True(t, errors.IsErrorType(err, errors.ErrNotFound))
		})
		t.Run("should return error when the job cannot be read", func(t *testing.T) {
			historyRepo := new(mockHistoryRepository)
			historyRepo.On("GetOutcome", mock.Anything, instanceID).Return(outcome, nil)
			defer historyRepo.AssertExpectations(t)

			jobRepo := new(mockJobRepository)
			jobRepo.On("GetJob", mock.Anything, jobID).Return(nil, fmt.Errorf("connection reset"))
			defer jobRepo.AssertExpectations(t)

			runService := service.NewJobRunService(logger, jobRepo, historyRepo, nil, nil, analyzer, time.UTC)

			_, err := runService.GetStepTimeline(ctx, instanceID)

			assert.EqualError(t, err, "connection reset")
		})
		t.Run("should return no partial timeline when correlation fails", func(t *testing.T) {
			historyRepo := new(mockHistoryRepository)
			historyRepo.On("GetOutcome", mock.Anything, instanceID).Return(outcome, nil)
			historyRepo.On("GetRunHistory", mock.Anything, outcome).Return([]*scheduler.HistoryRecord{}, nil)
			defer historyRepo.AssertExpectations(t)

			jobRepo := new(mockJobRepository)
			jobRepo.On("GetJob", mock.Anything, jobID).Return(job, nil)
			defer jobRepo.AssertExpectations(t)

			correlator := new(mockCorrelator)
			correlator.On("Correlate", mock.Anything, outcome, mock.Anything).
				Return(errors.UpstreamFailure(catalog.EntityExecution, "unable to read executions", fmt.Errorf("timeout")))
			defer correlator.AssertExpectations(t)

			runService := service.NewJobRunService(logger, jobRepo, historyRepo, nil, correlator, analyzer, time.UTC)

			timeline, err := runService.GetStepTimeline(ctx, instanceID)

			assert.Nil(t, timeline)
			assert.True(t, errors.IsErrorType(err, errors.ErrUpstreamFailure))
		})
		t.Run("should rebuild and correlate the timeline of the run", func(t *testing.T) {
			historyRepo := new(mockHistoryRepository)
			historyRepo.On("GetOutcome", mock.Anything, instanceID).Return(outcome, nil)
			historyRepo.On("GetRunHistory", mock.Anything, outcome).Return([]*scheduler.HistoryRecord{
				{InstanceID: 1038, JobID: jobID, StepID: 1, StepName: "Extract", RunDuration: 45, Status: scheduler.StatusSucceeded},
			}, nil)
			defer historyRepo.AssertExpectations(t)

			jobRepo := new(mockJobRepository)
			jobRepo.On("GetJob", mock.Anything, jobID).Return(job, nil)
			defer jobRepo.AssertExpectations(t)

			finder := new(mockExecutionFinder)
			finder.On("FindExecutions", mock.Anything, mock.Anything).Return([]*catalog.Execution{
				{ID: 501, Folder: "Finance", Project: "Ledger", Package: "Load.dtsx", Status: catalog.ExecutionFailed, StartTime: time.Date(2024, 1, 15, 10, 3, 0, 0, time.UTC)},
			}, nil)
			defer finder.AssertExpectations(t)
			correlator := service.NewExecutionCorrelator(logger, finder, time.UTC, scheduler.DefaultCorrelationSlack)

			runService := service.NewJobRunService(logger, jobRepo, historyRepo, nil, correlator, analyzer, time.UTC)

			timeline, err := runService.GetStepTimeline(ctx, instanceID)

			require.NoError(t, err)
			assert.Equal(t, jobName, timeline.JobName)
			assert.Equal(t, instanceID, timeline.InstanceID)
			require.Len(t, timeline.Steps, 3)

			assert.Equal(t, scheduler.StepExecuted, timeline.Steps[0].State)
			assert.Equal(t, "00:00:45", timeline.Steps[0].FormattedDuration)

			load := timeline.Steps[1]
			assert.Equal(t, scheduler.StepInferredFailed, load.State)
			assert.Equal(t, scheduler.CorrelationMatched, load.Correlation)
			assert.Equal(t, catalog.ExecutionID(501), *load.ExecutionID)
			assert.Equal(t, catalog.ExecutionFailed, *load.ExecutionStatus)

			assert.Equal(t, scheduler.StepNotExecuted, timeline.Steps[2].State)
		})
	})

	t.Run("GetJobRuns", func(t *testing.T) {
		t.Run("should reject negative days", func(t *testing.T) {
			runService := service.NewJobRunService(logger, nil, nil, nil, nil, analyzer, time.UTC)

			_, err := runService.GetJobRuns(ctx, scheduler.RunFilter{Days: -1})

			assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument))
		})
		t.Run("should return error when runs cannot be read", func(t *testing.T) {
			runRepo := new(mockJobRunRepository)
			runRepo.On("GetJobRuns", ctx, mock.Anything, "").Return(nil, fmt.Errorf("login failed"))
			defer runRepo.AssertExpectations(t)

			runService := service.NewJobRunService(logger, nil, nil, runRepo, nil, analyzer, time.UTC)

			_, err := runService.GetJobRuns(ctx, scheduler.RunFilter{})

			assert.EqualError(t, err, "login failed")
		})
		t.Run("should annotate runs with last run label and trend", func(t *testing.T) {
			average := 100.0
			runRepo := new(mockJobRunRepository)
			startOfWeek := mock.MatchedBy(func(since time.Time) bool {
				return since.Hour() == 0 && since.Minute() == 0 && time.Since(since) >= 7*24*time.Hour
			})
			runRepo.On("GetJobRuns", ctx, startOfWeek, "Finance").Return([]*scheduler.JobRun{
				{JobID: jobID, JobName: jobName, InstanceID: instanceID, RunDate: 20240115, RunTime: 100000, RunDuration: 210, Status: scheduler.StatusSucceeded, AverageSeconds: &average},
				{JobID: jobID, JobName: jobName, InstanceID: 990, RunDate: 20240114, RunTime: 100000, RunDuration: 0, Status: scheduler.StatusInProgress, AverageSeconds: &average},
			}, nil)
			defer runRepo.AssertExpectations(t)

			runService := service.NewJobRunService(logger, nil, nil, runRepo, nil, analyzer, time.UTC)

			reports, err := runService.GetJobRuns(ctx, scheduler.RunFilter{Days: 7, Category: "Finance"})

			require.NoError(t, err)
			require.Len(t, reports, 2)
			assert.Equal(t, "2024-01-15 10:00:00 AM UTC", reports[0].LastRunLabel)
			assert.Equal(t, scheduler.TrendSlower, reports[0].DurationTrend.Trend)
			assert.Equal(t, "+30%", reports[0].DurationTrend.Diff())
			assert.Equal(t, scheduler.TrendNormal, reports[1].DurationTrend.Trend)
			assert.Equal(t, "N/A", reports[1].FormattedDuration())
		})
	})

	t.Run("GetJobHistory", func(t *testing.T) {
		t.Run("should sort rows newest first then by step", func(t *testing.T) {
			historyRepo := new(mockHistoryRepository)
			historyRepo.On("GetJobHistory", ctx, jobName).Return([]*scheduler.HistoryRecord{
				{StepID: 0, RunDate: 20240114, RunTime: 100000, RunDuration: 10, Status: scheduler.StatusSucceeded},
				{StepID: 2, RunDate: 20240115, RunTime: 100000, Status: scheduler.StatusFailed},
				{StepID: 1, RunDate: 20240115, RunTime: 100000, RunDuration: 5, Status: scheduler.StatusSucceeded},
			}, nil)
			defer historyRepo.AssertExpectations(t)

			runService := service.NewJobRunService(logger, nil, historyRepo, nil, nil, analyzer, time.UTC)

			entries, err := runService.GetJobHistory(ctx, jobName)

			require.NoError(t, err)
			require.Len(t, entries, 3)
			assert.Equal(t, 1, entries[0].Record.StepID)
			assert.Equal(t, "00:00:05", entries[0].FormattedDuration)
			assert.Equal(t, "2024-01-15 10:00:00", entries[0].Timestamp)
			assert.Equal(t, 2, entries[1].Record.StepID)
			assert.Equal(t, "Failed", entries[1].StatusText)
			assert.Equal(t, 20240114, entries[2].Record.RunDate)
		})
		t.Run("should return error when history cannot be read", func(t *testing.T) {
			historyRepo := new(mockHistoryRepository)
			historyRepo.On("GetJobHistory", ctx, jobName).Return(nil, fmt.Errorf("timeout"))
			defer historyRepo.AssertExpectations(t)

			runService := service.NewJobRunService(logger, nil, historyRepo, nil, nil, analyzer, time.UTC)

			_, err := runService.GetJobHistory(ctx, jobName)

			assert.Error(t, err)
		})
	})

	t.Run("GetStepExecutionRefs", func(t *testing.T) {
		t.Run("should parse the execution id of every mention", func(t *testing.T) {
			historyRepo := new(mockHistoryRepository)
			historyRepo.On("GetExecutionMentions", ctx, jobName).Return([]*scheduler.HistoryRecord{
				{InstanceID: 1039, StepID: 2, StepName: "Load", Message: "Execution_id: 501 failed"},
				{InstanceID: 1002, StepID: 2, StepName: "Load", Message: "execution_id lookup skipped"},
			}, nil)
			defer historyRepo.AssertExpectations(t)

			runService := service.NewJobRunService(logger, nil, historyRepo, nil, nil, analyzer, time.UTC)

			refs, err := runService.GetStepExecutionRefs(ctx, jobName)

			require.NoError(t, err)
			require.Len(t, refs, 2)
			assert.Equal(t, catalog.ExecutionID(501), *refs[0].ExecutionID)
			assert.Nil(t, refs[1].ExecutionID)
		})
	})
}

type mockJobRepository struct {
	mock.Mock
}

func (m *mockJobRepository) GetJob(ctx context.Context, jobID scheduler.JobID) (*scheduler.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduler.Job), args.Error(1)
}

type mockHistoryRepository struct {
	mock.Mock
}

func (m *mockHistoryRepository) GetOutcome(ctx context.Context, instanceID scheduler.InstanceID) (*scheduler.HistoryRecord, error) {
	args := m.Called(ctx, instanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduler.HistoryRecord), args.Error(1)
}

func (m *mockHistoryRepository) GetRunHistory(ctx context.Context, outcome *scheduler.HistoryRecord) ([]*scheduler.HistoryRecord, error) {
	args := m.Called(ctx, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scheduler.HistoryRecord), args.Error(1)
}

func (m *mockHistoryRepository) GetJobHistory(ctx context.Context, jobName scheduler.JobName) ([]*scheduler.HistoryRecord, error) {
	args := m.Called(ctx, jobName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scheduler.HistoryRecord), args.Error(1)
}

func (m *mockHistoryRepository) GetExecutionMentions(ctx context.Context, jobName scheduler.JobName) ([]*scheduler.HistoryRecord, error) {
	args := m.Called(ctx, jobName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scheduler.HistoryRecord), args.Error(1)
}

type mockJobRunRepository struct {
	mock.Mock
}

func (m *mockJobRunRepository) GetJobRuns(ctx context.Context, since time.Time, category string) ([]*scheduler.JobRun, error) {
	args := m.Called(ctx, since, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scheduler.JobRun), args.Error(1)
}

type mockCorrelator struct {
	mock.Mock
}

func (m *mockCorrelator) Correlate(ctx context.Context, outcome *scheduler.HistoryRecord, entries []*scheduler.StepTimelineEntry) error {
	args := m.Called(ctx, outcome, entries)
	return args.Error(0)
}

type mockExecutionFinder struct {
	mock.Mock
}

func (m *mockExecutionFinder) FindExecutions(ctx context.Context, query scheduler.CorrelationQuery) ([]*catalog.Execution, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Execution), args.Error(1)
}
