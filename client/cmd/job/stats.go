package job

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goto/jobtrail/client/cmd/internal"
	"github.com/goto/jobtrail/client/cmd/internal/printer"
)

type statsCommand struct {
	opts internal.Options
	days int
}

// NewStatsCommand initializes command to aggregate run outcomes
func NewStatsCommand() *cobra.Command {
	stats := &statsCommand{}

	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Show run counts, average duration and success rate",
		Example: "jobtrail stats --days 30",
		RunE:    stats.RunE,
	}
	stats.opts.InjectFlags(cmd)
	cmd.Flags().IntVar(&stats.days, "days", 0, "Days to look back, 0 is today only")
	return cmd
}

func (s *statsCommand) RunE(cmd *cobra.Command, _ []string) error {
	if s.days < 0 {
		return fmt.Errorf("days should not be negative, got %d", s.days)
	}

	session, err := internal.NewSession(s.opts)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), s.opts.Timeout)
	defer cancel()

	stats, err := session.Engine.Stats.GetStats(ctx, s.days)
	if err != nil {
		return err
	}
	return printer.Print(cmd.OutOrStdout(), session.Format, newStatsView(s.days, stats))
}
