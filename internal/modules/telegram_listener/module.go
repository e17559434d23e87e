package telegram_listener

import (
	"context"
	"time"

	"go.uber.org/fx"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	healthservice "signal_bot/internal/modules/health/service"
	otpservice "signal_bot/internal/modules/otp/service"
	"signal_bot/internal/modules/telegram_listener/service"
	"signal_bot/internal/runner"
)

var restartBackoff = service.Backoff{Step: 5 * time.Second, Max: time.Minute}

func Module() fx.Option {
	return fx.Module("telegram_listener",
		fx.Provide(
			func(cfg *config.Config, q runner.Queue, relay *otpservice.Relay, state *healthservice.State) *service.Listener {
				return service.NewListener(cfg, (chan models.RawMessage)(q), relay, state)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, ctx context.Context, l *service.Listener) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go service.Supervise(ctx, "telegram listener", restartBackoff, l.Run)
					return nil
				},
			})
		}),
	)
}
