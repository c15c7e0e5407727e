package connector

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// cursorDomain prefixes cursor cache keys. The version suffix enables
// future algorithm migration.
const cursorDomain = "sqlconnect/cursor/v1"

// Args are named statement parameters, bound with :name placeholders and
// rebound to the driver's placeholder style at execution time.
type Args map[string]any

// cursorKey computes the cache key for one (statement, args) pair.
// Format: SHA256(domain + 0x00 + statement + 0x00 + args-JSON).
// The null byte separators prevent boundary ambiguity between segments.
//
// encoding/json marshals map keys in sorted order, so equal args always
// hash equally. Nil args hash the same as an empty map.
func cursorKey(statement string, args Args) (string, error) {
	if args == nil {
		args = Args{}
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("hash statement args: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(cursorDomain))
	h.Write([]byte{0x00})
	h.Write([]byte(statement))
	h.Write([]byte{0x00})
	h.Write(encoded)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// shortKey abbreviates a cache key for log fields and error messages.
func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
