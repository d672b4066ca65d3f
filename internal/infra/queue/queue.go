package queue

import (
	"context"

	"github.com/google/uuid"
)

// Job is one confirmation notification request. Delivery is at-least-once:
// a job may be handed to a consumer more than once and handlers must
// tolerate duplicates.
type Job struct {
	LoanID  uuid.UUID `json:"loan_id"`
	Attempt int       `json:"attempt"`
}

// Delivery is a received job plus the backend bookkeeping needed to ack it.
type Delivery struct {
	Job Job
	raw string
}

type Enqueuer interface {
	Enqueue(ctx context.Context, job Job) error
}

// Consumer pulls deliveries for the worker pool. Receive returns nil when
// no job arrived within the backend's poll window; Ack removes a finished
// delivery; Reclaim requeues deliveries left in flight by a dead worker.
type Consumer interface {
	Receive(ctx context.Context) (*Delivery, error)
	Ack(ctx context.Context, d *Delivery) error
	Reclaim(ctx context.Context) (int, error)
}
