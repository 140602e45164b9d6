// Package daily derives the level of the day and records daily results.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the deterministic level seed for a date key:
// the first 8 bytes of HMAC-SHA256(salt, date), high bit cleared so the
// value also fits a signed SQLite integer.
func Seed(date, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(date))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63)
}
