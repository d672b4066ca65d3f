package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"library-lending/internal/pkg/errs"
)

// MemoryQueue is a channel-backed queue for tests and local development.
// It honors the same at-least-once shape as the redis implementation:
// received deliveries sit in an in-flight set until acked. Identical
// payloads (a redelivered job marshals to the same bytes) are counted,
// so acking one of them leaves the others reclaimable.
type MemoryQueue struct {
	jobs chan string

	mu       sync.Mutex
	inflight map[string]int

	// FailEnqueues makes Enqueue return an error, for exercising the
	// fire-and-forget path.
	FailEnqueues bool
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{
		jobs:     make(chan string, capacity),
		inflight: make(map[string]int),
	}
}

func (q *MemoryQueue) Enqueue(_ context.Context, job Job) error {
	if q.FailEnqueues {
		return errs.New("enqueue failed")
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return errs.Wrap(err, "failed to marshal notification job")
	}

	select {
	case q.jobs <- string(payload):
		return nil
	default:
		return errs.New("queue is full")
	}
}

func (q *MemoryQueue) Receive(ctx context.Context) (*Delivery, error) {
	select {
	case raw := <-q.jobs:
		var job Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return nil, errs.Wrap(err, "failed to unmarshal notification job")
		}
		q.mu.Lock()
		q.inflight[raw]++
		q.mu.Unlock()
		return &Delivery{Job: job, raw: raw}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(50 * time.Millisecond):
		return nil, nil
	}
}

func (q *MemoryQueue) Ack(_ context.Context, d *Delivery) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.inflight[d.raw] > 0 {
		q.inflight[d.raw]--
		if q.inflight[d.raw] == 0 {
			delete(q.inflight, d.raw)
		}
	}
	return nil
}

func (q *MemoryQueue) Reclaim(_ context.Context) (int, error) {
	q.mu.Lock()
	pending := q.inflight
	q.inflight = make(map[string]int)
	q.mu.Unlock()

	moved := 0
	for raw, n := range pending {
		for i := 0; i < n; i++ {
			q.jobs <- raw
			moved++
		}
	}
	return moved, nil
}

// Len reports the number of jobs waiting on the main queue.
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}
