package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"codearena/internal/model"
)

// ErrNotFound mirrors spec.md's "absent" status: the key never existed or
// has expired.
var ErrNotFound = errors.New("store: not found")

func statusKey(jobID string) string { return "job:status:" + jobID }
func resultKey(jobID string) string { return "job:result:" + jobID }

// ResultStore persists job status and result records with their TTLs.
type ResultStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResultStore(rdb *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{rdb: rdb, ttl: ttl}
}

// SetStatus writes {status, created_at | started_at} with the result TTL.
func (s *ResultStore) SetStatus(ctx context.Context, jobID string, rec model.StatusRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, statusKey(jobID), payload, s.ttl).Err()
}

// GetStatus returns ErrNotFound if the key is absent or expired.
func (s *ResultStore) GetStatus(ctx context.Context, jobID string) (model.StatusRecord, error) {
	val, err := s.rdb.Get(ctx, statusKey(jobID)).Result()
	if errors.Is(err, redis.Nil) {
		return model.StatusRecord{}, ErrNotFound
	}
	if err != nil {
		return model.StatusRecord{}, err
	}
	var rec model.StatusRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return model.StatusRecord{}, err
	}
	return rec, nil
}

// DeleteStatus removes the status key once a result has been persisted
// (spec.md §4.4 step 12).
func (s *ResultStore) DeleteStatus(ctx context.Context, jobID string) error {
	return s.rdb.Del(ctx, statusKey(jobID)).Err()
}

// SetResult persists the final Result under job:result:<id>.
func (s *ResultStore) SetResult(ctx context.Context, jobID string, result model.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, resultKey(jobID), payload, s.ttl).Err()
}

// GetResult returns ErrNotFound if the key is absent or expired.
func (s *ResultStore) GetResult(ctx context.Context, jobID string) (model.Result, error) {
	val, err := s.rdb.Get(ctx, resultKey(jobID)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Result{}, ErrNotFound
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
