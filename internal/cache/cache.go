// Package cache implements the read-through/write-through content cache
// described in spec.md §4.5: a SHA-256 fingerprint of language+code keyed
// against a successful, non-compile-error Result.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"codearena/internal/model"
)

// ErrMiss is returned when no cache entry exists for a fingerprint.
var ErrMiss = errors.New("cache: miss")

// Fingerprint computes the content hash. The separator ':' cannot appear
// in a language identifier, so language+code concatenation is unambiguous
// even if code happens to start with the separator byte.
func Fingerprint(language, code string) string {
	h := sha256.New()
	h.Write([]byte(language))
	h.Write([]byte(":"))
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil))
}

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func key(fingerprint string) string { return "cache:" + fingerprint }

// Get returns ErrMiss on a cold cache.
func (c *Cache) Get(ctx context.Context, fingerprint string) (model.Result, error) {
	val, err := c.rdb.Get(ctx, key(fingerprint)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Result{}, ErrMiss
	}
	if err != nil {
		return model.Result{}, err
	}
	var result model.Result
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return model.Result{}, err
	}
	return result, nil
}

// Put writes a Result to the cache. Callers must only call this for
// results with ExitCode == 0 and CompileError == false — the cache never
// stores failures (spec.md §3 invariant).
func (c *Cache) Put(ctx context.Context, fingerprint string, result model.Result) error {
	if result.ExitCode != 0 || result.CompileError {
		return nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(fingerprint), payload, c.ttl).Err()
}
