package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"library-lending/internal/infra/queue"
	"library-lending/internal/usecase/queries"
)

// Mailer sends the loan confirmation. The slog implementation stands in
// for a real mail transport.
type Mailer interface {
	SendLoanConfirmation(ctx context.Context, view *queries.LoanView) error
}

type SlogMailer struct{}

func NewSlogMailer() *SlogMailer {
	return &SlogMailer{}
}

func (m *SlogMailer) SendLoanConfirmation(_ context.Context, view *queries.LoanView) error {
	slog.Info("loan confirmation sent",
		"loan_id", view.ID,
		"user_id", view.UserID,
		"book_title", view.BookTitle,
		"due_date", view.DueDate)
	return nil
}

// Notifier drains the notification queue with a small worker pool.
// Handling is read-only and idempotent: a redelivered job re-sends the
// confirmation but never touches loan or copy state. Failed jobs are
// re-enqueued with a bumped attempt counter until maxAttempts, then
// dropped with an error log.
type Notifier struct {
	consumer    queue.Consumer
	enqueuer    queue.Enqueuer
	loans       queries.LoanQueries
	mailer      Mailer
	workers     int
	maxAttempts int

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewNotifier(
	consumer queue.Consumer,
	enqueuer queue.Enqueuer,
	loans queries.LoanQueries,
	mailer Mailer,
	workers, maxAttempts int,
) *Notifier {
	if workers < 1 {
		workers = 1
	}
	return &Notifier{
		consumer:    consumer,
		enqueuer:    enqueuer,
		loans:       loans,
		mailer:      mailer,
		workers:     workers,
		maxAttempts: maxAttempts,
	}
}

// Start reclaims deliveries a previous process left in flight, then
// launches the worker pool.
func (n *Notifier) Start(ctx context.Context) error {
	reclaimed, err := n.consumer.Reclaim(ctx)
	if err != nil {
		slog.Warn("failed to reclaim in-flight notifications", "error", err.Error())
	}
	if reclaimed > 0 {
		slog.Info("reclaimed in-flight notifications", "count", reclaimed)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel

	for i := 0; i < n.workers; i++ {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.run(runCtx)
		}()
	}
	return nil
}

func (n *Notifier) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
	n.wg.Wait()
}

func (n *Notifier) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		delivery, err := n.consumer.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			slog.Warn("failed to receive notification job", "error", err.Error())
			continue
		}
		if delivery == nil {
			continue
		}

		n.handle(ctx, delivery)
	}
}

func (n *Notifier) handle(ctx context.Context, delivery *queue.Delivery) {
	job := delivery.Job

	err := n.process(ctx, job)
	if err != nil {
		n.retryOrDrop(ctx, job, err)
	}

	if ackErr := n.consumer.Ack(ctx, delivery); ackErr != nil {
		// The delivery stays in flight and will be reclaimed; the job
		// may be handled twice, which process tolerates.
		slog.Warn("failed to ack notification job", "loan_id", job.LoanID, "error", ackErr.Error())
	}
}

func (n *Notifier) process(ctx context.Context, job queue.Job) error {
	view, err := n.loans.GetByIDSystem(ctx, job.LoanID)
	if err != nil {
		return err
	}
	return n.mailer.SendLoanConfirmation(ctx, view)
}

func (n *Notifier) retryOrDrop(ctx context.Context, job queue.Job, cause error) {
	if job.Attempt+1 >= n.maxAttempts {
		slog.Error("dropping notification job after max attempts",
			"loan_id", job.LoanID,
			"attempts", job.Attempt+1,
			"error", cause.Error())
		return
	}

	job.Attempt++
	if err := n.enqueuer.Enqueue(ctx, job); err != nil {
		slog.Error("failed to re-enqueue notification job",
			"loan_id", job.LoanID,
			"attempt", job.Attempt,
			"error", err.Error())
		return
	}

	slog.Warn("notification job failed, re-enqueued",
		"loan_id", job.LoanID,
		"attempt", job.Attempt,
		"error", cause.Error())
}
