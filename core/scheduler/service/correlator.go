package service

import (
	"context"
	"time"

	"github.com/goto/salt/log"

	"github.com/goto/jobtrail/core/catalog"
	"github.com/goto/jobtrail/core/scheduler"
	"github.com/goto/jobtrail/internal/errors"
	"github.com/goto/jobtrail/internal/telemetry"
)

const metricCorrelationOutcome = "jobtrail_step_correlation_total"

type ExecutionFinder interface {
	FindExecutions(ctx context.Context, query scheduler.CorrelationQuery) ([]*catalog.Execution, error)
}

// ExecutionCorrelator attaches catalog executions to package steps lacking an explicit execution id
type ExecutionCorrelator struct {
	l      log.Logger
	finder ExecutionFinder
	loc    *time.Location
	slack  time.Duration
}

// Correlate resolves every pending entry of the timeline. Only a failed catalog read is an error,
// entries without a candidate end up unresolved.
func (c *ExecutionCorrelator) Correlate(ctx context.Context, outcome *scheduler.HistoryRecord, entries []*scheduler.StepTimelineEntry) error {
	window, hasWindow := scheduler.NewCorrelationWindow(outcome, c.loc, c.slack)

	for _, entry := range entries {
		if !entry.NeedsCorrelation() {
			c.record(entry.Correlation)
			continue
		}

		if !hasWindow {
			entry.Correlation = scheduler.CorrelationSkipped
			c.record(entry.Correlation)
			continue
		}

		query := scheduler.NewCorrelationQuery(entry, window)
		candidates, err := c.finder.FindExecutions(ctx, query)
		if err != nil {
			c.l.Error("error finding executions of package [%s] for step [%d]: %s", query.Package.Path(), entry.StepID, err)
			return errors.AddErrContext(err, scheduler.EntityJobStep, "unable to correlate step "+entry.StepName)
		}

		best, found := scheduler.BestCandidate(query, candidates)
		if !found {
			entry.Correlation = scheduler.CorrelationUnresolved
			c.l.Debug("no execution of package [%s] started between %s and %s", query.Package.Path(), query.Window.Start, query.Window.End)
			c.record(entry.Correlation)
			continue
		}

		entry.Correlate(best)
		c.record(entry.Correlation)
	}
	return nil
}

func (*ExecutionCorrelator) record(outcome scheduler.CorrelationOutcome) {
	if outcome == scheduler.CorrelationNotApplicable {
		return
	}
	telemetry.NewCounter(metricCorrelationOutcome, map[string]string{
		"outcome": outcome.String(),
	}).Inc()
}

func NewExecutionCorrelator(logger log.Logger, finder ExecutionFinder, loc *time.Location, slack time.Duration) *ExecutionCorrelator {
	if loc == nil {
		loc = time.UTC
	}
	return &ExecutionCorrelator{
		l:      logger,
		finder: finder,
		loc:    loc,
		slack:  slack,
	}
}
