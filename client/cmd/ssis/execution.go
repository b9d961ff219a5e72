package ssis

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/goto/jobtrail/client/cmd/internal"
	"github.com/goto/jobtrail/client/cmd/internal/printer"
	"github.com/goto/jobtrail/core/catalog"
)

type executionCommand struct {
	opts    internal.Options
	showAll bool
}

// NewExecutionCommand initializes command to inspect one catalog execution
func NewExecutionCommand() *cobra.Command {
	execution := &executionCommand{}

	cmd := &cobra.Command{
		Use:     "execution <execution_id>",
		Short:   "Show a catalog execution with its errors and warnings",
		Example: "jobtrail execution 812 --show-all",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("execution id is required")
			}
			return nil
		},
		RunE: execution.RunE,
	}
	execution.opts.InjectFlags(cmd)
	cmd.Flags().BoolVar(&execution.showAll, "show-all", false, "Include every message type")
	return cmd
}

func (e *executionCommand) RunE(cmd *cobra.Command, args []string) error {
	id, err := catalog.ExecutionIDFrom(args[0])
	if err != nil {
		return err
	}

	session, err := internal.NewSession(e.opts)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), e.opts.Timeout)
	defer cancel()

	detail, err := session.Engine.Executions.GetExecutionDetail(ctx, id, e.showAll)
	if err != nil {
		return err
	}
	return printer.Print(cmd.OutOrStdout(), session.Format, newExecutionDetailView(detail))
}
