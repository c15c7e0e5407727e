package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowmatic/sqlconnect/connector"
)

// NewPingCommand verifies connectivity against the configured target.
func NewPingCommand(opts *RootOptions) *cobra.Command {
	conn := &ConnFlags{}

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Open the configured database and verify connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := opts.Credentials(*conn)
			if err != nil {
				return err
			}

			c, err := connector.New(creds)
			if err != nil {
				return err
			}
			if err := c.Open(cmd.Context()); err != nil {
				return err
			}
			defer c.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "%s engine reachable: %s\n", c.Mode(), c.Target())
			return nil
		},
	}

	conn.Register(cmd.Flags())
	return cmd
}
