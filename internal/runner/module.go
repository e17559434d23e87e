package runner

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

// Queue — единственная очередь сигналов между слушателем и воркером.
type Queue chan models.RawMessage

func NewQueue(cfg *config.Config) Queue {
	return make(Queue, cfg.Service.QueueSize)
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewQueue,
			New,
		),
		fx.Invoke(func(lc fx.Lifecycle, ctx context.Context, r *Runner, q Queue) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go r.Worker(ctx, q)
					return nil
				},
			})
		}),
	)
}
