package otp

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/otp/service"
)

func Module() fx.Option {
	return fx.Module("otp",
		fx.Provide(
			service.NewRelay,
			NewHandler,
		),
	)
}
