package ssis

import (
	"context"
	"errors"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/goto/jobtrail/client/cmd/internal"
	"github.com/goto/jobtrail/client/cmd/internal/printer"
	"github.com/goto/jobtrail/core/catalog"
)

type executionsCommand struct {
	opts       internal.Options
	failedOnly bool
}

// NewExecutionsCommand initializes command to list the recent executions of a package
func NewExecutionsCommand() *cobra.Command {
	executions := &executionsCommand{}

	cmd := &cobra.Command{
		Use:   `executions <folder\project\package>`,
		Short: "List the latest catalog executions of an SSIS package",
		Example: heredoc.Doc(`
			$ jobtrail executions 'Finance\Ledger\Load.dtsx'
			$ jobtrail executions 'Finance\Ledger\Load.dtsx' --failed-only`),
		Annotations: map[string]string{
			"group:core": "true",
		},
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("package path is required")
			}
			return nil
		},
		RunE: executions.RunE,
	}
	executions.opts.InjectFlags(cmd)
	cmd.Flags().BoolVar(&executions.failedOnly, "failed-only", false, "Only failed executions")
	return cmd
}

func (e *executionsCommand) RunE(cmd *cobra.Command, args []string) error {
	if _, err := catalog.PackageReferenceFrom(args[0]); err != nil {
		return err
	}

	session, err := internal.NewSession(e.opts)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), e.opts.Timeout)
	defer cancel()

	executions, err := session.Engine.Executions.GetExecutionsByPackage(ctx, args[0], e.failedOnly)
	if err != nil {
		return err
	}
	return printer.Print(cmd.OutOrStdout(), session.Format, newExecutionsView(executions))
}
