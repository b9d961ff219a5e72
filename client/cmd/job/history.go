package job

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/goto/jobtrail/client/cmd/internal"
	"github.com/goto/jobtrail/client/cmd/internal/printer"
	"github.com/goto/jobtrail/core/scheduler"
)

type historyCommand struct {
	opts internal.Options
}

// NewHistoryCommand initializes command to list the history rows of a job
func NewHistoryCommand() *cobra.Command {
	history := &historyCommand{}

	cmd := &cobra.Command{
		Use:     "history <job_name>",
		Short:   "List the latest history rows of a job, newest first",
		Example: `jobtrail history "Nightly Load"`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("job name is required")
			}
			return nil
		},
		RunE: history.RunE,
	}
	history.opts.InjectFlags(cmd)
	return cmd
}

func (h *historyCommand) RunE(cmd *cobra.Command, args []string) error {
	jobName, err := scheduler.JobNameFrom(args[0])
	if err != nil {
		return err
	}

	session, err := internal.NewSession(h.opts)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), h.opts.Timeout)
	defer cancel()

	entries, err := session.Engine.JobRuns.GetJobHistory(ctx, jobName)
	if err != nil {
		return err
	}
	return printer.Print(cmd.OutOrStdout(), session.Format, newHistoryView(entries))
}
