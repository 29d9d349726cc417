// Package cursor provides opaque pagination tokens for ledger queries.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Cursor marks a position in the event log for resumable queries.
type Cursor struct {
	// Seq is the last sequence number the previous page returned.
	Seq uint64 `json:"seq"`
	// FilterHash invalidates tokens when the query filter changes.
	FilterHash string `json:"filter_hash,omitempty"`
}

// New creates a cursor positioned after seq for the given filter key.
func New(seq uint64, filterKey string) Cursor {
	return Cursor{Seq: seq, FilterHash: hashKey(filterKey)}
}

// Encode encodes a cursor to an opaque base64 token.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode decodes an opaque token and checks it against the current filter
// key. A token minted under a different filter is rejected.
func Decode(token, filterKey string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("empty token")
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if c.FilterHash != hashKey(filterKey) {
		return Cursor{}, fmt.Errorf("filter changed since cursor was created")
	}
	return c, nil
}

// hashKey computes a short hash of the filter key. Empty keys hash to the
// empty string so unfiltered tokens stay compact.
func hashKey(key string) string {
	if key == "" {
		return ""
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:8])
}
