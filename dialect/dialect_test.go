package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input  string
		family string
		name   string
	}{
		{"postgresql+pq", "postgresql", "pq"},
		{"sqlite+sqlite3", "sqlite", "sqlite3"},
		{"mysql+mysql", "mysql", "mysql"},
		{"oracle+godror", "oracle", "godror"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.family, d.Family())
			assert.Equal(t, tt.name, d.Name())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"postgresql",
		"+pq",
		"postgresql+",
		"+",
	}

	for _, input := range tests {
		t.Run("input="+input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestLookup_KnownDrivers(t *testing.T) {
	tests := []struct {
		driver    Driver
		sqlDriver string
		async     bool
	}{
		{PostgresPq, "postgres", false},
		{SQLite, "sqlite3", false},
		{MySQL, "mysql", false},
		{MSSQLServer, "sqlserver", false},
		{PostgresPgx, "pgx", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.driver), func(t *testing.T) {
			info, err := Lookup(tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.sqlDriver, info.SQLDriver)
			assert.Equal(t, tt.async, info.Async)
			assert.Equal(t, tt.async, tt.driver.IsAsync())
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("postgresql+nosuchdriver")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestIsAsync_Unknown(t *testing.T) {
	assert.False(t, Driver("mystery+driver").IsAsync())
}

func TestRegister(t *testing.T) {
	err := Register("oracle+godror", Info{SQLDriver: "godror"})
	require.NoError(t, err)

	info, err := Lookup("oracle+godror")
	require.NoError(t, err)
	assert.Equal(t, "godror", info.SQLDriver)
	assert.False(t, info.Async)
}

func TestRegister_Duplicate(t *testing.T) {
	err := Register(SQLite, Info{SQLDriver: "sqlite3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegister_Invalid(t *testing.T) {
	assert.Error(t, Register("noseparator", Info{SQLDriver: "x"}))
	assert.Error(t, Register("family+name", Info{}))
}
