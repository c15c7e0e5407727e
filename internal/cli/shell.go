package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/flowmatic/sqlconnect/connector"
)

// queryPrefixes mark statements that return rows.
var queryPrefixes = []string{"SELECT", "WITH", "SHOW", "PRAGMA", "EXPLAIN"}

// NewShellCommand opens an interactive statement loop over one
// connector, so consecutive statements reuse the same engine.
func NewShellCommand(opts *RootOptions) *cobra.Command {
	conn := &ConnFlags{}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive SQL shell",
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

			fmt.Fprintf(cmd.OutOrStdout(), "connected: %s engine, %s\n", c.Mode(), c.Target())
			return runShell(cmd, opts, c)
		},
	}

	conn.Register(cmd.Flags())
	return cmd
}

func runShell(cmd *cobra.Command, opts *RootOptions, c *connector.Connector) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	out := cmd.OutOrStdout()
	for {
		stmt, err := line.Prompt("sql> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		stmt = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))
		if stmt == "" {
			continue
		}
		if strings.EqualFold(stmt, "exit") || strings.EqualFold(stmt, "quit") {
			return nil
		}
		line.AppendHistory(stmt)

		if err := runStatement(cmd, opts, c, stmt); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	}
}

func runStatement(cmd *cobra.Command, opts *RootOptions, c *connector.Connector, stmt string) error {
	if !returnsRows(stmt) {
		if err := c.Execute(cmd.Context(), stmt, nil); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
		return nil
	}

	rows, err := c.FetchAll(cmd.Context(), stmt, nil)
	// Each shell statement is a fresh read: throw the cursor cache away
	// so re-running a query does not hit its exhausted cursor.
	c.ResetCursors()
	if err != nil {
		return err
	}
	return RenderRows(cmd.OutOrStdout(), opts.Format, rows)
}

func returnsRows(stmt string) bool {
	upper := strings.ToUpper(stmt)
	for _, prefix := range queryPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}
