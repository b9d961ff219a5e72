package service

import (
	"context"
	"time"

	"github.com/goto/salt/log"

	"github.com/goto/jobtrail/core/catalog"
)

const (
	RecentWindowDays = 30
	MaxExecutions    = 50
)

type ExecutionRepository interface {
	GetExecutionsByPackage(ctx context.Context, ref catalog.PackageReference, since time.Time, status *catalog.ExecutionStatus, limit int) ([]*catalog.Execution, error)
	GetExecution(ctx context.Context, id catalog.ExecutionID) (*catalog.Execution, error)
	GetMessages(ctx context.Context, id catalog.ExecutionID, types []catalog.MessageType) ([]*catalog.OperationMessage, error)
}

type ExecutionService struct {
	l    log.Logger
	repo ExecutionRepository
	now  func() time.Time
}

// GetExecutionsByPackage lists the latest executions of a package within the recent window, newest first.
// The path is validated before the catalog is read.
func (s *ExecutionService) GetExecutionsByPackage(ctx context.Context, packagePath string, failedOnly bool) ([]*catalog.Execution, error) {
	ref, err := catalog.PackageReferenceFrom(packagePath)
	if err != nil {
		return nil, err
	}

	var status *catalog.ExecutionStatus
	if failedOnly {
		failed := catalog.ExecutionFailed
		status = &failed
	}

	since := s.now().UTC().AddDate(0, 0, -RecentWindowDays)
	executions, err := s.repo.GetExecutionsByPackage(ctx, ref, since, status, MaxExecutions)
	if err != nil {
		s.l.Error("error getting executions of package [%s]: %s", ref.Path(), err)
		return nil, err
	}
	return executions, nil
}

// GetExecutionDetail returns the execution with its messages, newest first. Unless showAll is set
// only errors, task failures and warnings are included.
func (s *ExecutionService) GetExecutionDetail(ctx context.Context, id catalog.ExecutionID, showAll bool) (*catalog.ExecutionDetail, error) {
	execution, err := s.repo.GetExecution(ctx, id)
	if err != nil {
		s.l.Error("error getting execution [%d]: %s", id, err)
		return nil, err
	}

	var types []catalog.MessageType
	if !showAll {
		types = catalog.DiagnosticMessageTypes
	}

	messages, err := s.repo.GetMessages(ctx, id, types)
	if err != nil {
		s.l.Error("error getting messages of execution [%d]: %s", id, err)
		return nil, err
	}

	return &catalog.ExecutionDetail{
		Execution: execution,
		Messages:  messages,
	}, nil
}

func NewExecutionService(logger log.Logger, repo ExecutionRepository) *ExecutionService {
	return &ExecutionService{
		l:    logger,
		repo: repo,
		now:  time.Now,
	}
}
