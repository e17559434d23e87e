package service

import (
	"context"
	"time"

	"signal_bot/pkg/logger"
)

// Backoff — линейная задержка между перезапусками: Step, 2*Step, ... до Max.
type Backoff struct {
	Step time.Duration
	Max  time.Duration
}

func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(attempt) * b.Step
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

// Supervise перезапускает run, пока жив сам ctx: ошибка run, даже обёрнутый
// context.Canceled от внутренних контекстов клиента, — повод для рестарта. Сессия, прожившая дольше Max,
// сбрасывает счётчик попыток.
func Supervise(ctx context.Context, name string, b Backoff, run func(ctx context.Context) error) {
	attempt := 0
	for {
		started := time.Now()
		err := run(ctx)
		if ctx.Err() != nil {
			return
		}

		if time.Since(started) > b.Max {
			attempt = 0
		}
		attempt++
		delay := b.Delay(attempt)
		logger.Error("%s stopped: %v, restart #%d in %s", name, err, attempt, delay)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}
