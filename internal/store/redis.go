// Package store wraps the key/value service (Redis) operations the core
// depends on: the FIFO queue, job status/result records, and their TTLs.
// Cache and rate-limit counters live in their own packages but share this
// client.
package store

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewClient builds a Redis client from host/port/password, the same shape
// the teacher's NATS connection setup takes (one constructor, fatal on
// misconfiguration is left to the caller).
func NewClient(host, port, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})
}
