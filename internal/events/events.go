// Package events publishes job-completion notifications to NATS, gated by
// an optional broker URL. This repurposes the teacher's natshandler
// package — there, NATS carried synchronous RPC requests into the
// executor; here there is no RPC surface, so the same client library is
// redirected at a fire-and-forget completion event instead.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"codearena/internal/model"
)

const completedSubject = "jobs.completed"

// completedEvent is the payload published to completedSubject.
type completedEvent struct {
	JobID      string       `json:"job_id"`
	Language   string       `json:"language"`
	ExitCode   int          `json:"exit_code"`
	Cached     bool         `json:"cached"`
	FinishedAt int64        `json:"finished_at"`
	Result     model.Result `json:"result"`
}

// Publisher publishes best-effort job-completion events. A nil
// *nats.Conn (broker URL unset or unreachable at startup) makes every
// publish a no-op, so callers never need to branch on whether events are
// enabled.
type Publisher struct {
	conn *nats.Conn
	log  *zap.Logger
}

// Connect dials url if non-empty. Connection failure is logged and
// returns a disabled Publisher rather than an error — event publishing
// is supplementary, never load-bearing for the submission/status flow.
func Connect(url string, log *zap.Logger) *Publisher {
	if url == "" {
		return &Publisher{log: log}
	}
	conn, err := nats.Connect(url, nats.Timeout(5*time.Second))
	if err != nil {
		if log != nil {
			log.Warn("nats connect failed, job-completion events disabled", zap.Error(err))
		}
		return &Publisher{log: log}
	}
	return &Publisher{conn: conn, log: log}
}

// PublishJobCompleted implements worker.Publisher.
func (p *Publisher) PublishJobCompleted(job model.Job, result model.Result) {
	if p.conn == nil {
		return
	}
	payload, err := json.Marshal(completedEvent{
		JobID:      job.ID,
		Language:   job.Language,
		ExitCode:   result.ExitCode,
		Cached:     result.Cached,
		FinishedAt: model.Now(),
		Result:     result,
	})
	if err != nil {
		if p.log != nil {
			p.log.Warn("marshal job-completion event failed", zap.Error(err), zap.String("job_id", job.ID))
		}
		return
	}
	if err := p.conn.Publish(completedSubject, payload); err != nil && p.log != nil {
		p.log.Warn("publish job-completion event failed", zap.Error(err), zap.String("job_id", job.ID))
	}
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
