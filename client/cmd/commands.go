package cmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goto/jobtrail/client/cmd/job"
	"github.com/goto/jobtrail/client/cmd/ssis"
	"github.com/goto/jobtrail/client/cmd/version"
)

// New constructs the 'root' command. It houses all other sub commands
func New() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "jobtrail <command> <subcommand> [flags]",
		Short: "Inspect SQL Server Agent job runs and their SSIS executions",
		Long: heredoc.Doc(`
			JobTrail reconstructs agent job runs from msdb history and links
			their package steps to SSIS catalog executions.`),
		SilenceUsage: true,
		Example: heredoc.Doc(`
			$ jobtrail runs --days 7
			$ jobtrail timeline 4021 -o tree
			$ jobtrail serve -c jobtrail.yaml`),
		PersistentPreRun: func(*cobra.Command, []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(
		job.NewTimelineCommand(),
		job.NewRunsCommand(),
		job.NewHistoryCommand(),
		job.NewStatsCommand(),
		ssis.NewExecutionsCommand(),
		ssis.NewExecutionCommand(),
		version.NewVersionCommand(),
	)
	return cmd
}
