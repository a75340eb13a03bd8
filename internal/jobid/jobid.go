// Package jobid generates job identifiers matching the grammar
// ^(job_|cached_)[A-Za-z0-9._]+$ from spec.md §6, using a cryptographic
// random source rather than the teacher's non-cryptographic unique-token
// function — this resolves spec.md §9's "Open question: job id collision"
// by using >=96 bits of crypto/rand, eliminating that collision class.
package jobid

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// token returns a URL-safe, grammar-safe random token with at least 96
// bits of entropy.
func token() string {
	buf := make([]byte, 15) // 120 bits
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failing means the platform CSPRNG is broken
	}
	return strings.ToLower(encoding.EncodeToString(buf))
}

// New generates a fresh asynchronous job id.
func New() string { return "job_" + token() }

// NewCached generates a synthetic id for a synchronous cache hit.
func NewCached() string { return "cached_" + token() }
