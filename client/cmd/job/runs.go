package job

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/goto/jobtrail/client/cmd/internal"
	"github.com/goto/jobtrail/client/cmd/internal/printer"
	"github.com/goto/jobtrail/core/scheduler"
)

type runsCommand struct {
	opts     internal.Options
	days     int
	category string
}

// NewRunsCommand initializes command to list the latest run of every job
func NewRunsCommand() *cobra.Command {
	runs := &runsCommand{}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List job runs with their duration trend",
		Example: heredoc.Doc(`
			$ jobtrail runs
			$ jobtrail runs --days 7 --category ETL -o json`),
		Annotations: map[string]string{
			"group:core": "true",
		},
		RunE: runs.RunE,
	}
	runs.opts.InjectFlags(cmd)
	cmd.Flags().IntVar(&runs.days, "days", 0, "Days to look back, 0 is today only")
	cmd.Flags().StringVar(&runs.category, "category", "", "Only jobs of this category")
	return cmd
}

func (r *runsCommand) RunE(cmd *cobra.Command, _ []string) error {
	if r.days < 0 {
		return fmt.Errorf("days should not be negative, got %d", r.days)
	}

	session, err := internal.NewSession(r.opts)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), r.opts.Timeout)
	defer cancel()

	reports, err := session.Engine.JobRuns.GetJobRuns(ctx, scheduler.RunFilter{Days: r.days, Category: r.category})
	if err != nil {
		return err
	}
	return printer.Print(cmd.OutOrStdout(), session.Format, newRunsView(reports))
}
