package bybit_client

import (
	"signal_bot/internal/modules/bybit_client/service"
	"signal_bot/internal/runner"

	"go.uber.org/fx"
)

// Module — REST-клиент Bybit и его адаптер под runner.Exchange.
func Module() fx.Option {
	return fx.Module("bybit_client",
		fx.Provide(
			service.NewClient,
			func(c *service.Client) runner.Exchange {
				return c
			},
		),
	)
}
