package events

import (
	"testing"

	"codearena/internal/model"
)

func TestPublisherDisabledIsSafeNoOp(t *testing.T) {
	p := Connect("", nil)
	// Must not panic or block when no broker URL was configured.
	p.PublishJobCompleted(model.Job{ID: "job_test"}, model.Result{ExitCode: 0})
	p.Close()
}

func TestPublisherUnreachableBrokerDegradesGracefully(t *testing.T) {
	p := Connect("nats://127.0.0.1:4", nil)
	p.PublishJobCompleted(model.Job{ID: "job_test"}, model.Result{ExitCode: 0})
	p.Close()
}
