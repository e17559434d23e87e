package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_Delay(t *testing.T) {
	b := Backoff{Step: time.Second, Max: 3 * time.Second}

	assert.Equal(t, time.Second, b.Delay(0))
	assert.Equal(t, time.Second, b.Delay(1))
	assert.Equal(t, 2*time.Second, b.Delay(2))
	assert.Equal(t, 3*time.Second, b.Delay(3))
	assert.Equal(t, 3*time.Second, b.Delay(10))
}

func TestSupervise_RestartsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32

	done := make(chan struct{})
	go func() {
		Supervise(ctx, "test", Backoff{Step: time.Millisecond, Max: 5 * time.Millisecond}, func(ctx context.Context) error {
			if runs.Add(1) == 3 {
				cancel()
				<-ctx.Done()
				return ctx.Err()
			}
			return errors.New("connection reset")
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop")
	}
	assert.Equal(t, int32(3), runs.Load())
}

func TestSupervise_RestartsOnWrappedCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var runs atomic.Int32

	done := make(chan struct{})
	go func() {
		Supervise(ctx, "test", Backoff{Step: time.Millisecond, Max: 5 * time.Millisecond}, func(ctx context.Context) error {
			if runs.Add(1) == 3 {
				cancel()
				return ctx.Err()
			}
			// внутренний контекст клиента отменён, родительский жив
			return fmt.Errorf("connection dead: %w", context.Canceled)
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop")
	}
	assert.Equal(t, int32(3), runs.Load())
}
