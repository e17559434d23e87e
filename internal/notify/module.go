package notify

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

// New выбирает канал оператора: бот при наличии токена и чата, иначе лог.
func New(cfg *config.Config) Notifier {
	if cfg.Notify.BotToken == "" || cfg.Notify.ChatID == 0 {
		return NewStdout()
	}
	t, err := NewTelegram(cfg.Notify.BotToken, cfg.Notify.ChatID)
	if err != nil {
		logger.Warn("notify: %v, falling back to stdout", err)
		return NewStdout()
	}
	return t
}

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(
			New,
			func(n Notifier) runner.Notifier { return n },
		),
	)
}
