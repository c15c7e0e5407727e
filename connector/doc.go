// Package connector runs SQL statements and queries against a configured
// database target as orchestrated units of work.
//
// Connection handling, pooling, execution and result scanning are
// delegated to database/sql and sqlx. The package's own responsibilities
// are narrow:
//
//   - resolve a declarative credential block into a DSN and an open pool
//   - dispatch work over the synchronous or asynchronous execution path,
//     chosen by the declared driver
//   - cache open result cursors keyed by a hash of the statement and its
//     parameters, so repeated fetches page one result set instead of
//     re-executing
//   - guarantee open/close lifecycle so orchestrated steps do not leak
//     connections
//
// Cursors are never evicted automatically. An exhausted cursor stays in
// the cache yielding no further rows; ResetCursors throws the whole cache
// away, and Close does so before closing the pool.
package connector
