package service

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrEmptyCode   = errors.New("otp is empty")
	ErrCodePending = errors.New("otp already submitted and not consumed yet")
)

// Relay — одна ячейка для кода подтверждения: HTTP кладёт, логин забирает.
type Relay struct {
	slot chan string
}

func NewRelay() *Relay {
	return &Relay{slot: make(chan string, 1)}
}

func (r *Relay) Submit(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCode
	}
	select {
	case r.slot <- code:
		return nil
	default:
		return ErrCodePending
	}
}

// Drain выбрасывает код, оставшийся в ячейке без ожидающего логина.
func (r *Relay) Drain() bool {
	select {
	case <-r.slot:
		return true
	default:
		return false
	}
}

// Await блокируется до прихода кода или отмены ctx.
func (r *Relay) Await(ctx context.Context) (string, error) {
	select {
	case code := <-r.slot:
		return code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
