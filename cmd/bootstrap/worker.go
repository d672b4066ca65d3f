package bootstrap

import (
	"context"

	"library-lending/internal/infra/queue"
	"library-lending/internal/pkg/config"
	"library-lending/internal/usecase/queries"
	"library-lending/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		fx.Annotate(
			worker.NewSlogMailer,
			fx.As(new(worker.Mailer)),
		),
		NewNotifier,
	),
	fx.Invoke(RunNotifier),
)

func NewNotifier(
	consumer queue.Consumer,
	enqueuer queue.Enqueuer,
	loanQueries queries.LoanQueries,
	mailer worker.Mailer,
	cfg config.Config,
) *worker.Notifier {
	return worker.NewNotifier(
		consumer,
		enqueuer,
		loanQueries,
		mailer,
		cfg.Loan.NotifyWorkers,
		cfg.Loan.NotifyMaxAttempts,
	)
}

func RunNotifier(lc fx.Lifecycle, n *worker.Notifier) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return n.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			n.Stop()
			return nil
		},
	})
}
