package main

import (
	"os"

	// Database drivers linked into the CLI. Library consumers link the
	// drivers they declare themselves.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/flowmatic/sqlconnect/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
