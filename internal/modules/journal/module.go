package journal

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/journal/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"
)

// New поднимает пул pgx и схему. Пустой DSN — журнал выключен.
func New(ctx context.Context, lc fx.Lifecycle, cfg *config.Config) (runner.Journal, error) {
	if cfg.DB == "" {
		logger.Info("journal disabled: db_dsn is empty")
		return service.Nop{}, nil
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
	if err != nil {
		return nil, fmt.Errorf("failed to create poolMaster: %w", err)
	}
	tx := db.NewPgTxManager(pool)

	j := service.NewJournal(tx)
	if err := j.EnsureSchema(ctx); err != nil {
		tx.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			tx.Close()
			return nil
		},
	})
	return j, nil
}

func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(New),
	)
}
