package connector

import (
	"sync"

	"github.com/jmoiron/sqlx"
)

// Row is one result row, keyed by column name.
type Row map[string]any

// cursor is an open result set being paged by repeated fetch calls.
//
// A cursor lives in the connector's cache until ResetCursors or Close;
// exhaustion does not evict it. All paging for one cursor is serialized
// by its mutex, so concurrent fetches of the same statement see disjoint
// pages rather than racing on the underlying rows.
type cursor struct {
	mu        sync.Mutex
	rows      *sqlx.Rows
	exhausted bool
}

// fetch returns up to n rows, or all remaining rows when n < 0.
// An exhausted cursor returns no rows and no error.
func (c *cursor) fetch(n int) ([]Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exhausted {
		return nil, nil
	}

	var out []Row
	for n < 0 || len(out) < n {
		if !c.rows.Next() {
			c.exhausted = true
			if err := c.rows.Err(); err != nil {
				return out, err
			}
			break
		}
		row := Row{}
		if err := c.rows.MapScan(row); err != nil {
			return out, err
		}
		out = append(out, row)
	}
	return out, nil
}

// close releases the underlying rows. The cursor is unusable afterwards.
func (c *cursor) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.exhausted = true
	return c.rows.Close()
}
