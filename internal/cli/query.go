package cli

import (
	"github.com/spf13/cobra"

	"github.com/flowmatic/sqlconnect/tasks"
)

// NewQueryCommand runs one query and renders the fetched rows.
func NewQueryCommand(opts *RootOptions) *cobra.Command {
	conn := &ConnFlags{}
	var params []string
	var limit int

	cmd := &cobra.Command{
		Use:   "query <statement>",
		Short: "Execute a query and print the fetched rows",
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

			rows, err := tasks.Query(cmd.Context(), creds, posArgs[0], args, limit)
			if err != nil {
				return err
			}
			return RenderRows(cmd.OutOrStdout(), opts.Format, rows)
		},
	}

	conn.Register(cmd.Flags())
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "statement parameter as key=value; repeatable")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "max rows to fetch (0 fetches all)")
	return cmd
}
