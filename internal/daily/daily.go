// internal/daily/daily.go
//
// Deterministic randomness for the Daily Challenge.
// Every player starting a daily game on the same UTC date gets the same
// random stream, so the target, the evil-mode drift and the hint order match.
// The stream is seeded from HMAC-SHA256(salt, YYYY-MM-DD).

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the two PCG seed words for the date of t.
func Seed(t time.Time, salt string) (uint64, uint64) {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])
}

// Rand returns a fresh random source for the date of t.
func Rand(t time.Time, salt string) *rand.Rand {
	hi, lo := Seed(t, salt)
	return rand.New(rand.NewPCG(hi, lo))
}
