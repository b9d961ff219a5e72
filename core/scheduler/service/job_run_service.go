package service

import (
	"context"
	"time"

	"github.com/goto/salt/log"

	"github.com/goto/jobtrail/core/scheduler"
	"github.com/goto/jobtrail/internal/errors"
	"github.com/goto/jobtrail/internal/telemetry"
)

type JobRepository interface {
	GetJob(ctx context.Context, jobID scheduler.JobID) (*scheduler.Job, error)
}

type HistoryRepository interface {
	GetOutcome(ctx context.Context, instanceID scheduler.InstanceID) (*scheduler.HistoryRecord, error)
	GetRunHistory(ctx context.Context, outcome *scheduler.HistoryRecord) ([]*scheduler.HistoryRecord, error)
	GetJobHistory(ctx context.Context, jobName scheduler.JobName) ([]*scheduler.HistoryRecord, error)
	GetExecutionMentions(ctx context.Context, jobName scheduler.JobName) ([]*scheduler.HistoryRecord, error)
}

type JobRunRepository interface {
	GetJobRuns(ctx context.Context, since time.Time, category string) ([]*scheduler.JobRun, error)
}

type Correlator interface {
	Correlate(ctx context.Context, outcome *scheduler.HistoryRecord, entries []*scheduler.StepTimelineEntry) error
}

type JobRunService struct {
	l           log.Logger
	jobRepo     JobRepository
	historyRepo HistoryRepository
	runRepo     JobRunRepository
	correlator  Correlator
	trend       scheduler.TrendAnalyzer
	loc         *time.Location
	now         func() time.Time
}

// GetStepTimeline rebuilds the complete step list of one run and correlates its package steps.
// A failing read aborts the whole timeline.
func (s *JobRunService) GetStepTimeline(ctx context.Context, instanceID scheduler.InstanceID) (*scheduler.RunTimeline, error) {
	ctx, span := telemetry.StartSpan(ctx, "JobRunService.GetStepTimeline")
	defer span.End()

	outcome, err := s.historyRepo.GetOutcome(ctx, instanceID)
	if err != nil {
		s.l.Error("error getting outcome of run [%d]: %s", instanceID, err)
		return nil, err
	}

	job, err := s.jobRepo.GetJob(ctx, outcome.JobID)
	if err != nil {
		s.l.Error("error getting job [%s]: %s", outcome.JobID, err)
		return nil, err
	}

	records, err := s.historyRepo.GetRunHistory(ctx, outcome)
	if err != nil {
		s.l.Error("error getting history of run [%d]: %s", instanceID, err)
		return nil, err
	}
	history := scheduler.NewHistory(append(records, outcome))

	entries := scheduler.BuildTimeline(job.Steps, history)
	if err := s.correlator.Correlate(ctx, outcome, entries); err != nil {
		return nil, err
	}

	return &scheduler.RunTimeline{
		JobID:      job.ID,
		JobName:    job.Name,
		InstanceID: instanceID,
		Outcome:    outcome,
		Steps:      entries,
	}, nil
}

// GetJobRuns lists the outcome of every run within the filter, newest first
func (s *JobRunService) GetJobRuns(ctx context.Context, filter scheduler.RunFilter) ([]*scheduler.JobRunReport, error) {
	if filter.Days < 0 {
		return nil, errors.InvalidArgument(scheduler.EntityJobRun, "days should not be negative")
	}

	since := filter.Since(s.now().In(s.loc))
	runs, err := s.runRepo.GetJobRuns(ctx, since, filter.Category)
	if err != nil {
		s.l.Error("error getting job runs since [%s]: %s", since.Format(time.DateOnly), err)
		return nil, err
	}

	reports := make([]*scheduler.JobRunReport, len(runs))
	for i, run := range runs {
		reports[i] = scheduler.NewJobRunReport(run, s.loc, s.trend)
	}
	return reports, nil
}

// GetJobHistory lists every history row of the job, newest run first and steps in order
func (s *JobRunService) GetJobHistory(ctx context.Context, jobName scheduler.JobName) ([]*scheduler.HistoryEntry, error) {
	records, err := s.historyRepo.GetJobHistory(ctx, jobName)
	if err != nil {
		s.l.Error("error getting history of job [%s]: %s", jobName, err)
		return nil, err
	}

	entries := make([]*scheduler.HistoryEntry, len(records))
	for i, record := range records {
		entries[i] = scheduler.NewHistoryEntry(record)
	}
	scheduler.SortHistoryEntries(entries)
	return entries, nil
}

// GetStepExecutionRefs lists step rows of the job whose message names a catalog execution
func (s *JobRunService) GetStepExecutionRefs(ctx context.Context, jobName scheduler.JobName) ([]*scheduler.StepExecutionRef, error) {
	records, err := s.historyRepo.GetExecutionMentions(ctx, jobName)
	if err != nil {
		s.l.Error("error getting execution references of job [%s]: %s", jobName, err)
		return nil, err
	}

	refs := make([]*scheduler.StepExecutionRef, len(records))
	for i, record := range records {
		refs[i] = scheduler.NewStepExecutionRef(record)
	}
	return refs, nil
}

func NewJobRunService(logger log.Logger, jobRepo JobRepository, historyRepo HistoryRepository, runRepo JobRunRepository,
	correlator Correlator, trend scheduler.TrendAnalyzer, loc *time.Location,
) *JobRunService {
	if loc == nil {
		loc = time.UTC
	}
	return &JobRunService{
		l:           logger,
		jobRepo:     jobRepo,
		historyRepo: historyRepo,
		runRepo:     runRepo,
		correlator:  correlator,
		trend:       trend,
		loc:         loc,
		now:         time.Now,
	}
}
