package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"codearena/internal/model"
)

// QueueKey is the single FIFO list the worker pool pops from. The spec
// canonicalizes on this list-based design over the teacher's job-library
// variant.
const QueueKey = "queue:code-execution"

// ErrQueueEmpty is returned by Pop when the poll window elapses with no
// job available — not a failure, just "try again".
var ErrQueueEmpty = errors.New("queue: no job available")

// Queue pushes and pops Job records against a single Redis list, grounded
// on sempr-hustoj-go/judged/fetcher.go's RedisFetcher: RPop is atomic, so
// no separate checkout step is required to guarantee at-most-one-worker
// per job.
type Queue struct {
	rdb *redis.Client
}

func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Push enqueues a job at the list head; workers pop from the tail, so
// enqueue order is preserved FIFO.
func (q *Queue) Push(ctx context.Context, job model.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, QueueKey, payload).Err()
}

// Pop blocks for up to pollTimeout waiting for a job. It returns
// ErrQueueEmpty (not an error the caller should log) when nothing arrived
// in that window, so the dispatcher loop can check for shutdown and retry
// without busy-waiting.
func (q *Queue) Pop(ctx context.Context, pollTimeout time.Duration) (model.Job, error) {
	res, err := q.rdb.BRPop(ctx, pollTimeout, QueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return model.Job{}, ErrQueueEmpty
	}
	if err != nil {
		return model.Job{}, err
	}
	// BRPop returns [key, value].
	if len(res) != 2 {
		return model.Job{}, ErrQueueEmpty
	}
	var job model.Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return model.Job{}, err
	}
	return job, nil
}
