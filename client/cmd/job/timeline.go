package job

import (
	"context"
	"errors"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/goto/jobtrail/client/cmd/internal"
	"github.com/goto/jobtrail/client/cmd/internal/printer"
	"github.com/goto/jobtrail/core/scheduler"
)

type timelineCommand struct {
	opts internal.Options
}

// NewTimelineCommand initializes command to rebuild the steps of one run
func NewTimelineCommand() *cobra.Command {
	timeline := &timelineCommand{}

	cmd := &cobra.Command{
		Use:   "timeline <instance_id>",
		Short: "Show every step of a job run with its inferred state",
		Long: heredoc.Doc(`
			Rebuilds the complete step list of one run from the agent history.
			Steps without their own history row are inferred from the job outcome,
			package steps are matched with their SSIS catalog execution.`),
		Example: heredoc.Doc(`
			$ jobtrail timeline 4021
			$ jobtrail timeline 4021 -o tree`),
		Annotations: map[string]string{
			"group:core": "true",
		},
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("instance id is required")
			}
			return nil
		},
		RunE: timeline.RunE,
	}
	timeline.opts.InjectFlags(cmd)
	return cmd
}

func (t *timelineCommand) RunE(cmd *cobra.Command, args []string) error {
	instanceID, err := scheduler.InstanceIDFrom(args[0])
	if err != nil {
		return err
	}

	session, err := internal.NewSession(t.opts)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), t.opts.Timeout)
	defer cancel()

	timeline, err := session.Engine.JobRuns.GetStepTimeline(ctx, instanceID)
	if err != nil {
		return err
	}
	return printer.Print(cmd.OutOrStdout(), session.Format, newTimelineView(timeline))
}
