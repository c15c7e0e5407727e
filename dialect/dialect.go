// Package dialect maps declarative driver identifiers to database/sql
// driver registrations and classifies them as synchronous or asynchronous.
//
// A driver identifier has the form "family+name", e.g. "postgresql+pq" or
// "sqlite+sqlite3". The family names the SQL dialect, the name identifies
// the client library. The classification decides which execution path the
// connector uses: synchronous drivers run on the caller's goroutine,
// asynchronous drivers run through a connector-owned dispatch loop.
package dialect

import (
	"fmt"
	"strings"
	"sync"
)

// Driver is a declarative driver identifier of the form "family+name".
type Driver string

// Known dialect families.
const (
	FamilyPostgres = "postgresql"
	FamilyMySQL    = "mysql"
	FamilySQLite   = "sqlite"
	FamilyMSSQL    = "mssql"
)

// Known synchronous drivers.
const (
	PostgresPq  Driver = "postgresql+pq"
	MySQL       Driver = "mysql+mysql"
	SQLite      Driver = "sqlite+sqlite3"
	MSSQLServer Driver = "mssql+sqlserver"
)

// Known asynchronous drivers. Operations on these run through the
// connector's dispatch loop so callers can abandon them on context
// cancellation.
const (
	PostgresPgx Driver = "postgresql+pgx"
)

// Info describes how a declared driver maps onto the Go database toolkit.
type Info struct {
	// SQLDriver is the name the client library registers with database/sql.
	// The library itself must be linked into the final binary, typically
	// with a blank import.
	SQLDriver string

	// Async selects the asynchronous execution path.
	Async bool
}

var (
	registryMu sync.RWMutex
	registry   = map[Driver]Info{
		PostgresPq:  {SQLDriver: "postgres"},
		MySQL:       {SQLDriver: "mysql"},
		SQLite:      {SQLDriver: "sqlite3"},
		MSSQLServer: {SQLDriver: "sqlserver"},
		PostgresPgx: {SQLDriver: "pgx", Async: true},
	}
)

// Parse validates the "family+name" shape of a driver identifier.
// It does not require the driver to be registered; Lookup does that.
func Parse(s string) (Driver, error) {
	family, name, ok := strings.Cut(s, "+")
	if !ok {
		return "", fmt.Errorf("driver %q: missing '+' separator (want family+name)", s)
	}
	if family == "" || name == "" {
		return "", fmt.Errorf("driver %q: family and name must be non-empty", s)
	}
	return Driver(s), nil
}

// Family returns the dialect family, e.g. "postgresql".
func (d Driver) Family() string {
	family, _, _ := strings.Cut(string(d), "+")
	return family
}

// Name returns the client library name, e.g. "pq".
func (d Driver) Name() string {
	_, name, _ := strings.Cut(string(d), "+")
	return name
}

// IsAsync reports whether the driver is registered as asynchronous.
// Unknown drivers report false.
func (d Driver) IsAsync() bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[d].Async
}

// Lookup resolves a declared driver to its registration.
// Unknown drivers are an error: callers must Register novel drivers
// explicitly rather than rely on probing.
func Lookup(d Driver) (Info, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	info, ok := registry[d]
	if !ok {
		return Info{}, fmt.Errorf("unknown driver %q: register it with dialect.Register", d)
	}
	return info, nil
}

// Register adds a novel driver to the registry. Registering an already
// known driver is an error: a driver's classification never changes for
// the lifetime of the process.
func Register(d Driver, info Info) error {
	if _, err := Parse(string(d)); err != nil {
		return err
	}
	if info.SQLDriver == "" {
		return fmt.Errorf("register %q: SQLDriver must be non-empty", d)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[d]; ok {
		return fmt.Errorf("driver %q already registered", d)
	}
	registry[d] = info
	return nil
}
