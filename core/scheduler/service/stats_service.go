package service

import (
	"context"
	"time"

	"github.com/goto/salt/log"

	"github.com/goto/jobtrail/core/scheduler"
	"github.com/goto/jobtrail/internal/errors"
)

type StatsRepository interface {
	GetRunCounts(ctx context.Context, since time.Time) (scheduler.RunCounts, error)
	GetCategories(ctx context.Context) ([]string, error)
}

type StatsService struct {
	l    log.Logger
	repo StatsRepository
	loc  *time.Location
	now  func() time.Time
}

// GetStats aggregates the outcome rows since the start of the day `days` days ago
func (s *StatsService) GetStats(ctx context.Context, days int) (*scheduler.JobStats, error) {
	if days < 0 {
		return nil, errors.InvalidArgument(scheduler.EntityStats, "days should not be negative")
	}

	since := scheduler.RunFilter{Days: days}.Since(s.now().In(s.loc))
	counts, err := s.repo.GetRunCounts(ctx, since)
	if err != nil {
		s.l.Error("error getting run counts since [%s]: %s", since.Format(time.DateOnly), err)
		return nil, err
	}
	return scheduler.NewJobStats(counts), nil
}

func (s *StatsService) GetCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		s.l.Error("error getting job categories: %s", err)
		return nil, err
	}
	return categories, nil
}

func NewStatsService(logger log.Logger, repo StatsRepository, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{
		l:    logger,
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}
