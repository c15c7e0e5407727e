package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorKey_Stable(t *testing.T) {
	args := Args{"name": "Marvin", "limit": 3}

	first, err := cursorKey("SELECT * FROM customers WHERE name = :name", args)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		key, err := cursorKey("SELECT * FROM customers WHERE name = :name", args)
		require.NoError(t, err)
		assert.Equal(t, first, key)
	}
}

func TestCursorKey_NilEqualsEmpty(t *testing.T) {
	withNil, err := cursorKey("SELECT 1", nil)
	require.NoError(t, err)

	withEmpty, err := cursorKey("SELECT 1", Args{})
	require.NoError(t, err)

	assert.Equal(t, withNil, withEmpty)
}

func TestCursorKey_DistinguishesStatement(t *testing.T) {
	a, err := cursorKey("SELECT 1", nil)
	require.NoError(t, err)
	b, err := cursorKey("SELECT 2", nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCursorKey_DistinguishesArgs(t *testing.T) {
	a, err := cursorKey("SELECT :x", Args{"x": 1})
	require.NoError(t, err)
	b, err := cursorKey("SELECT :x", Args{"x": 2})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCursorKey_UnmarshalableArgs(t *testing.T) {
	_, err := cursorKey("SELECT :x", Args{"x": make(chan int)})
	assert.Error(t, err)
}

func TestShortKey(t *testing.T) {
	assert.Equal(t, "deadbeef", shortKey("deadbeef00112233"))
	assert.Equal(t, "abc", shortKey("abc"))
}
