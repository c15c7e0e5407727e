package connector

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/flowmatic/sqlconnect/config"
	"github.com/flowmatic/sqlconnect/dialect"
)

// defaultFetchSize is the page size used by FetchMany when no size is
// given, matching the smallest useful page.
const defaultFetchSize = 1

// Connector is a configured connection target. It wraps the database
// toolkit's pool, dispatches work over the driver's execution path, and
// caches open result cursors so repeated fetches of the same statement
// page through one result set.
//
// Create one with New, open it with Open, and Close it when the
// orchestrated work is done. A Connector must not be copied.
type Connector struct {
	creds     config.Credentials
	info      dialect.Info
	id        string
	log       logrus.FieldLogger
	fetchSize int

	mu     sync.Mutex
	db     *sqlx.DB
	exec   path
	closed bool

	cursorMu sync.Mutex
	cursors  map[string]*cursor
}

// Option configures a Connector.
type Option func(*Connector)

// WithLogger replaces the standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Connector) { c.log = log }
}

// WithFetchSize sets the default page size for FetchMany.
// Sizes below one are ignored.
func WithFetchSize(n int) Option {
	return func(c *Connector) {
		if n >= 1 {
			c.fetchSize = n
		}
	}
}

// New validates the credential block, resolves the declared driver and
// returns an unopened connector.
func New(creds config.Credentials, opts ...Option) (*Connector, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	info, err := dialect.Lookup(creds.Driver)
	if err != nil {
		return nil, err
	}

	c := &Connector{
		creds:     creds,
		info:      info,
		id:        uuid.NewString(),
		log:       logrus.StandardLogger(),
		fetchSize: defaultFetchSize,
		cursors:   make(map[string]*cursor),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Mode reports the execution path as "SYNCHRONOUS" or "ASYNCHRONOUS".
func (c *Connector) Mode() string {
	if c.info.Async {
		return "ASYNCHRONOUS"
	}
	return "SYNCHRONOUS"
}

// Target returns the connection target with the password masked.
func (c *Connector) Target() string {
	return c.creds.Redacted()
}

// Open assembles the DSN, opens the pool and verifies connectivity.
// Open is idempotent while the connector is live; reopening a closed
// connector returns ErrClosed.
func (c *Connector) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return &OpError{Op: "open", Err: ErrClosed}
	}
	if c.db != nil {
		return nil
	}

	dsn, err := c.creds.DSN()
	if err != nil {
		return &OpError{Op: "open", Err: err}
	}

	db, err := sqlx.Open(c.info.SQLDriver, dsn)
	if err != nil {
		return &OpError{Op: "open", Err: err}
	}

	var exec path = syncPath{}
	if c.info.Async {
		exec = newAsyncPath()
	}

	if err := exec.run(ctx, func() error { return db.PingContext(ctx) }); err != nil {
		exec.close()
		db.Close()
		return &OpError{Op: "open", Err: err}
	}

	c.db = db
	c.exec = exec
	c.log.WithFields(logrus.Fields{
		"connector": c.id,
		"mode":      c.Mode(),
		"target":    c.creds.Redacted(),
	}).Info("opened database engine")
	return nil
}

// DB exposes the underlying pool for direct toolkit access.
// Returns nil before Open. Prefer the connector operations.
func (c *Connector) DB() *sqlx.DB {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db
}

// Ping verifies connectivity over the driver's execution path.
func (c *Connector) Ping(ctx context.Context) error {
	return c.dispatch(ctx, func() error { return c.db.PingContext(ctx) })
}

// FetchOne returns the next row for the statement. Repeated calls with
// the same statement and args page through one cached cursor rather than
// re-executing. Returns sql.ErrNoRows when the cursor has no more rows.
func (c *Connector) FetchOne(ctx context.Context, query string, args Args) (Row, error) {
	rows, err := c.fetch(ctx, query, args, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}
	return rows[0], nil
}

// FetchMany returns the next size rows for the statement, paging the
// cached cursor. A size below one uses the connector's fetch size option.
// Fewer rows than requested means the cursor is exhausted.
func (c *Connector) FetchMany(ctx context.Context, query string, args Args, size int) ([]Row, error) {
	if size < 1 {
		size = c.fetchSize
	}
	return c.fetch(ctx, query, args, size)
}

// FetchAll drains the remaining rows for the statement. The cursor entry
// stays cached, exhausted, until ResetCursors or Close.
func (c *Connector) FetchAll(ctx context.Context, query string, args Args) ([]Row, error) {
	return c.fetch(ctx, query, args, -1)
}

// Execute runs one statement that returns no rows. Results are neither
// fetched nor cached.
func (c *Connector) Execute(ctx context.Context, statement string, args Args) error {
	err := c.dispatch(ctx, func() error {
		_, execErr := c.db.NamedExecContext(ctx, statement, mapArgs(args))
		return execErr
	})
	if err != nil {
		return opError("execute", statement, args, err)
	}
	return nil
}

// ExecuteMany runs one statement once per args set, in a single
// transaction. Any failure rolls the whole batch back.
func (c *Connector) ExecuteMany(ctx context.Context, statement string, batch []Args) error {
	err := c.dispatch(ctx, func() error {
		tx, txErr := c.db.BeginTxx(ctx, nil)
		if txErr != nil {
			return txErr
		}
		for _, args := range batch {
			if _, execErr := tx.NamedExecContext(ctx, statement, mapArgs(args)); execErr != nil {
				_ = tx.Rollback()
				return execErr
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return opError("execute", statement, nil, err)
	}
	return nil
}

// ResetCursors closes every cached cursor and clears the cache wholesale.
// Close failures are logged and the sweep continues; the cache is empty
// afterwards regardless.
func (c *Connector) ResetCursors() {
	c.cursorMu.Lock()
	defer c.cursorMu.Unlock()

	for key, cur := range c.cursors {
		if err := cur.close(); err != nil {
			c.log.WithFields(logrus.Fields{
				"connector": c.id,
				"statement": shortKey(key),
			}).WithError(err).Warn("failed to close cursor")
		}
	}
	c.cursors = make(map[string]*cursor)
}

// Close resets all cursors, stops the execution path and closes the
// pool. Close is idempotent; the connector cannot be reopened.
func (c *Connector) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	db, exec := c.db, c.exec
	c.mu.Unlock()

	if db == nil {
		return nil
	}

	c.ResetCursors()
	exec.close()
	if err := db.Close(); err != nil {
		return &OpError{Op: "close", Err: err}
	}
	c.log.WithField("connector", c.id).Info("closed database engine")
	return nil
}

// With opens a connector for the credential block, runs fn and always
// closes again, so orchestrated steps cannot leak connections.
func With(ctx context.Context, creds config.Credentials, fn func(*Connector) error) error {
	c, err := New(creds)
	if err != nil {
		return err
	}
	if err := c.Open(ctx); err != nil {
		return err
	}

	err = fn(c)
	if cerr := c.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// fetch pages the cached cursor for (query, args), creating it on first
// use. n < 0 drains the cursor.
func (c *Connector) fetch(ctx context.Context, query string, args Args, n int) ([]Row, error) {
	key, err := cursorKey(query, args)
	if err != nil {
		return nil, &OpError{Op: "fetch", Err: err}
	}

	var out []Row
	err = c.dispatch(ctx, func() error {
		cur, curErr := c.cursorFor(ctx, key, query, args)
		if curErr != nil {
			return curErr
		}
		out, curErr = cur.fetch(n)
		return curErr
	})
	if err != nil {
		return nil, &OpError{Op: "fetch", Statement: shortKey(key), Err: err}
	}
	return out, nil
}

// cursorFor returns the cached cursor for key, executing the query and
// caching the result set on a miss. One cursor per unique key: a hit
// never re-executes.
func (c *Connector) cursorFor(ctx context.Context, key, query string, args Args) (*cursor, error) {
	c.cursorMu.Lock()
	defer c.cursorMu.Unlock()

	if cur, ok := c.cursors[key]; ok {
		return cur, nil
	}

	rows, err := c.db.NamedQueryContext(ctx, query, mapArgs(args))
	if err != nil {
		return nil, err
	}

	cur := &cursor{rows: rows}
	c.cursors[key] = cur
	c.log.WithFields(logrus.Fields{
		"connector": c.id,
		"statement": shortKey(key),
	}).Debug("opened result cursor")
	return cur, nil
}

// dispatch runs fn over the driver's execution path, guarding lifecycle.
func (c *Connector) dispatch(ctx context.Context, fn func() error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.db == nil {
		c.mu.Unlock()
		return ErrNotOpen
	}
	exec := c.exec
	c.mu.Unlock()

	return exec.run(ctx, fn)
}

// mapArgs normalizes args for the toolkit's named binding, which expects
// a plain map type.
func mapArgs(args Args) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	return map[string]any(args)
}

func opError(op, statement string, args Args, err error) error {
	key, keyErr := cursorKey(statement, args)
	if keyErr != nil {
		return &OpError{Op: op, Err: err}
	}
	return &OpError{Op: op, Statement: shortKey(key), Err: err}
}

var _ fmt.Stringer = (*Connector)(nil)

// String identifies the connector for logs without exposing credentials.
func (c *Connector) String() string {
	return fmt.Sprintf("connector %s (%s %s)", c.id, c.Mode(), c.creds.Redacted())
}
