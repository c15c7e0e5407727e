package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowmatic/sqlconnect/tasks"
)

// NewExecCommand runs one DDL or DML statement as a unit of work.
func NewExecCommand(opts *RootOptions) *cobra.Command {
	conn := &ConnFlags{}
	var params []string

	cmd := &cobra.Command{
		Use:   "exec <statement>",
		Short: "Execute a statement that returns no rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			creds, err := opts.Credentials(*conn)
			if err != nil {
				return err
			}
			args, err := parseParams(params)
			if err != nil {
				return err
			}

			if err := tasks.Execute(cmd.Context(), creds, posArgs[0], args); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	conn.Register(cmd.Flags())
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "statement parameter as key=value; repeatable")
	return cmd
}
