package main

import (
	"context"
	"errors"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	bybit "signal_bot/internal/modules/bybit_client"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/journal"
	"signal_bot/internal/modules/otp"
	listener "signal_bot/internal/modules/telegram_listener"
	"signal_bot/internal/notify"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

func main() {
	app := fx.New(
		fx.Provide(
			rootContext,
			newLogger,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config.Module(),
		fx.Invoke(initTracing),
		bybit.Module(),
		notify.Module(),
		journal.Module(),
		otp.Module(),
		health.Module(),
		runner.Module(),
		listener.Module(),
	)
	app.Run()
}

// rootContext живёт до остановки приложения; на нём работают воркер и слушатель.
func rootContext(lc fx.Lifecycle) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return ctx
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger.SetServiceName(cfg.Service.Name)
	if _, err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		return nil, err
	}
	return logger.L(), nil
}

// initTracing зависит от логгера, поэтому его OnStop выполняется одним из последних:
// там же закрываем трейсер и сбрасываем лог.
func initTracing(lc fx.Lifecycle, cfg *config.Config, _ *zap.Logger) error {
	tracing.SetServiceName(cfg.Service.Name)
	_, closer, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.Host,
		Port:    cfg.Tracing.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return multierr.Combine(closer.Close(), syncLogger())
		},
	})
	return nil
}

func syncLogger() error {
	// sync на stdout/stderr возвращает EINVAL/ENOTTY, это не ошибка
	if err := logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		return err
	}
	return nil
}
