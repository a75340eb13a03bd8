// Package ratelimit implements the fixed-window counter from spec.md §4.5,
// generalizing the teacher's in-memory last-request-time map
// (pkg/rate_limiter.go) to a Redis-backed counter so it works across
// replicas.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	rdb    *redis.Client
	max    int64
	window time.Duration
}

func New(rdb *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, max: int64(max), window: window}
}

// FingerprintCaller one-way hashes a caller network identifier (spec.md §3
// client_fingerprint, reused here as the rate-limit key).
func FingerprintCaller(remoteAddr string) string {
	sum := sha256.Sum256([]byte(remoteAddr))
	return hex.EncodeToString(sum[:])
}

func key(callerFingerprint string) string { return "ratelimit:" + callerFingerprint }

// Allow increments the caller's window counter and reports whether the
// request should proceed. The increment happens before the decision is
// read back, per spec.md §4.2 step 4: cache hits still cost budget. The
// window TTL is armed only on the 0→1 transition so later increments don't
// keep resetting the window.
func (l *Limiter) Allow(ctx context.Context, callerFingerprint string) (bool, error) {
	k := key(callerFingerprint)
	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return false, err
		}
	}
	// Reject if the pre-increment value was already >= max, i.e. this
	// increment pushed the counter past max.
	return count <= l.max, nil
}

func (l *Limiter) Max() int            { return int(l.max) }
func (l *Limiter) WindowSeconds() int  { return int(l.window / time.Second) }
