package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"library-lending/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	loanQueueKey      = "notifications:loans"
	loanProcessingKey = "notifications:loans:processing"

	receiveTimeout = 1 * time.Second
)

// RedisQueue implements the at-least-once delivery contract with a main
// list and a processing list: BLMove parks an in-flight payload on the
// processing list until Ack removes it, so a crash between the two leaves
// the payload recoverable by Reclaim.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return errs.Wrap(err, "failed to marshal notification job")
	}
	if err := q.client.LPush(ctx, loanQueueKey, payload).Err(); err != nil {
		return errs.Wrap(err, "failed to enqueue notification job")
	}
	return nil
}

func (q *RedisQueue) Receive(ctx context.Context) (*Delivery, error) {
	raw, err := q.client.BLMove(ctx, loanQueueKey, loanProcessingKey, "RIGHT", "LEFT", receiveTimeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "failed to receive notification job")
	}

	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		// Poison payload: drop it from the processing list and move on.
		q.client.LRem(ctx, loanProcessingKey, 1, raw)
		return nil, errs.Wrap(err, "failed to unmarshal notification job")
	}

	return &Delivery{Job: job, raw: raw}, nil
}

func (q *RedisQueue) Ack(ctx context.Context, d *Delivery) error {
	if err := q.client.LRem(ctx, loanProcessingKey, 1, d.raw).Err(); err != nil {
		return errs.Wrap(err, "failed to ack notification job")
	}
	return nil
}

// Reclaim moves every parked payload back onto the main queue. Called once
// at startup, before the workers begin receiving.
func (q *RedisQueue) Reclaim(ctx context.Context) (int, error) {
	moved := 0
	for {
		_, err := q.client.LMove(ctx, loanProcessingKey, loanQueueKey, "RIGHT", "LEFT").Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return moved, nil
			}
			return moved, errs.Wrap(err, "failed to reclaim notification jobs")
		}
		moved++
	}
}
