// Package config defines the credential block used to describe a database
// target declaratively. A credential block is either a full URL/DSN or a
// set of component fields (driver, host, port, user, password, database)
// that the package assembles into a driver-specific data source name.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flowmatic/sqlconnect/dialect"
)

// Default ports by dialect family.
const (
	defaultPostgresPort = 5432
	defaultMySQLPort    = 3306
	defaultMSSQLPort    = 1433
)

const passwordMask = "xxxxx"

// Credentials describes how to reach a database. Driver is always
// required. The URL field is mutually exclusive with the component
// fields: set one or the other.
type Credentials struct {
	// Driver is the declared driver, e.g. "postgresql+pq".
	Driver dialect.Driver `yaml:"driver"`

	// Username and Password authenticate the connection.
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Database names the database (for SQLite, the file path;
	// empty means an in-memory database).
	Database string `yaml:"database,omitempty"`

	// Host defaults to "localhost" for network dialects.
	Host string `yaml:"host,omitempty"`

	// Port defaults per dialect family (5432, 3306, 1433).
	Port int `yaml:"port,omitempty"`

	// Query holds extra connection parameters passed through to the
	// driver, e.g. sslmode.
	Query map[string]string `yaml:"query,omitempty"`

	// URL is a complete data source name passed through verbatim.
	URL string `yaml:"url,omitempty"`
}

// Validate checks that the block is internally consistent.
func (c Credentials) Validate() error {
	if c.Driver == "" {
		return fmt.Errorf("credentials: driver is required")
	}
	if _, err := dialect.Parse(string(c.Driver)); err != nil {
		return fmt.Errorf("credentials: %w", err)
	}
	if c.URL != "" {
		if c.Username != "" || c.Password != "" || c.Database != "" ||
			c.Host != "" || c.Port != 0 || len(c.Query) > 0 {
			return fmt.Errorf("credentials: url is mutually exclusive with component fields")
		}
	}
	return nil
}

// DSN assembles the driver-specific data source name. When URL is set it
// is passed through verbatim; otherwise the components are rendered per
// dialect family with defaults applied.
func (c Credentials) DSN() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if c.URL != "" {
		return c.URL, nil
	}

	switch c.Driver.Family() {
	case dialect.FamilyPostgres:
		return c.urlDSN("postgres", defaultPostgresPort), nil
	case dialect.FamilyMSSQL:
		return c.mssqlDSN(), nil
	case dialect.FamilyMySQL:
		return c.mysqlDSN(), nil
	case dialect.FamilySQLite:
		return c.sqliteDSN(), nil
	default:
		return "", fmt.Errorf("credentials: cannot assemble DSN for dialect family %q; set url instead", c.Driver.Family())
	}
}

// Redacted renders the connection target with the password masked.
// Safe for logging; never renders the real password.
func (c Credentials) Redacted() string {
	masked := c
	if masked.Password != "" {
		masked.Password = passwordMask
	}
	if masked.URL != "" {
		if u, err := url.Parse(masked.URL); err == nil {
			return fmt.Sprintf("%s (%s)", u.Redacted(), c.Driver)
		}
		return fmt.Sprintf("url (%s)", c.Driver)
	}

	dsn, err := masked.DSN()
	if err != nil {
		return string(c.Driver)
	}
	return fmt.Sprintf("%s (%s)", dsn, c.Driver)
}

// String implements fmt.Stringer so credential blocks can be printed
// without leaking the password.
func (c Credentials) String() string {
	return c.Redacted()
}

// LoadFile reads and validates a YAML credential block.
func LoadFile(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("load credentials: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML credential block.
func Parse(data []byte) (Credentials, error) {
	var c Credentials
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

func (c Credentials) host() string {
	if c.Host == "" {
		return "localhost"
	}
	return c.Host
}

func (c Credentials) port(def int) int {
	if c.Port == 0 {
		return def
	}
	return c.Port
}

// urlDSN renders URL-shaped DSNs (postgres://...). Query parameters are
// encoded in sorted key order, so assembly is deterministic.
func (c Credentials) urlDSN(scheme string, defaultPort int) string {
	u := url.URL{
		Scheme: scheme,
		Host:   fmt.Sprintf("%s:%d", c.host(), c.port(defaultPort)),
		Path:   "/" + c.Database,
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	u.RawQuery = encodeQuery(c.Query)
	return u.String()
}

func (c Credentials) mssqlDSN() string {
	q := url.Values{}
	if c.Database != "" {
		q.Set("database", c.Database)
	}
	for k, v := range c.Query {
		q.Set(k, v)
	}
	u := url.URL{
		Scheme:   "sqlserver",
		Host:     fmt.Sprintf("%s:%d", c.host(), c.port(defaultMSSQLPort)),
		RawQuery: q.Encode(),
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	return u.String()
}

// mysqlDSN renders the go-sql-driver format: user:pass@tcp(host:port)/db.
func (c Credentials) mysqlDSN() string {
	var b strings.Builder
	if c.Username != "" {
		b.WriteString(c.Username)
		if c.Password != "" {
			b.WriteByte(':')
			b.WriteString(c.Password)
		}
		b.WriteByte('@')
	}
	fmt.Fprintf(&b, "tcp(%s:%d)/%s", c.host(), c.port(defaultMySQLPort), c.Database)
	if query := encodeQuery(c.Query); query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	return b.String()
}

// sqliteDSN renders a file path or :memory:. Query parameters force the
// file: URI form understood by the sqlite3 driver.
func (c Credentials) sqliteDSN() string {
	database := c.Database
	if database == "" {
		database = ":memory:"
	}
	if len(c.Query) == 0 {
		return database
	}
	return "file:" + database + "?" + encodeQuery(c.Query)
}

// encodeQuery renders parameters in sorted key order (url.Values.Encode
// sorts), so DSN assembly is deterministic.
func encodeQuery(query map[string]string) string {
	if len(query) == 0 {
		return ""
	}
	v := url.Values{}
	for k, val := range query {
		v.Set(k, val)
	}
	return v.Encode()
}
