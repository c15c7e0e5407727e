// Package tasks wraps single statements and queries as self-contained
// orchestrated units of work. Each task opens a connector, runs exactly
// one statement and closes again, so no connection outlives the step
// that ran it. Use a shared connector.Connector directly when a step
// sequence should reuse one engine or page a cursor across fetches.
package tasks

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flowmatic/sqlconnect/config"
	"github.com/flowmatic/sqlconnect/connector"
)

// Execute runs one DDL or DML statement against the credential block's
// target. Statement results are not returned: statements that produce no
// rows would otherwise surface a closed-result error downstream.
func Execute(ctx context.Context, creds config.Credentials, statement string, args connector.Args) error {
	start := time.Now()
	err := connector.With(ctx, creds, func(c *connector.Connector) error {
		return c.Execute(ctx, statement, args)
	})
	logTask("execute", creds, start, err)
	return err
}

// ExecuteMany runs one statement once per args set in a single
// transaction, opening and closing a connector around the batch.
func ExecuteMany(ctx context.Context, creds config.Credentials, statement string, batch []connector.Args) error {
	start := time.Now()
	err := connector.With(ctx, creds, func(c *connector.Connector) error {
		return c.ExecuteMany(ctx, statement, batch)
	})
	logTask("execute-many", creds, start, err)
	return err
}

// Query runs one query and returns its rows: all of them when limit < 1,
// otherwise at most limit rows.
func Query(ctx context.Context, creds config.Credentials, query string, args connector.Args, limit int) ([]connector.Row, error) {
	start := time.Now()

	var rows []connector.Row
	err := connector.With(ctx, creds, func(c *connector.Connector) error {
		var fetchErr error
		if limit < 1 {
			rows, fetchErr = c.FetchAll(ctx, query, args)
		} else {
			rows, fetchErr = c.FetchMany(ctx, query, args, limit)
		}
		return fetchErr
	})
	logTask("query", creds, start, err)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func logTask(task string, creds config.Credentials, start time.Time, err error) {
	entry := logrus.WithFields(logrus.Fields{
		"task":     task,
		"target":   creds.Redacted(),
		"duration": time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Warn("database task failed")
		return
	}
	entry.Debug("database task finished")
}
