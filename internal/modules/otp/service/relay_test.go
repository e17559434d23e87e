package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelay_SingleSlot(t *testing.T) {
	r := NewRelay()

	require.NoError(t, r.Submit(" 12345 "))
	assert.ErrorIs(t, r.Submit("67890"), ErrCodePending)

	code, err := r.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12345", code)

	// слот снова свободен
	require.NoError(t, r.Submit("67890"))
}

func TestRelay_Empty(t *testing.T) {
	assert.ErrorIs(t, NewRelay().Submit("  "), ErrEmptyCode)
}

func TestRelay_AwaitBlocksUntilSubmit(t *testing.T) {
	r := NewRelay()
	got := make(chan string, 1)
	go func() {
		code, _ := r.Await(context.Background())
		got <- code
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, r.Submit("42"))

	select {
	case code := <-got:
		assert.Equal(t, "42", code)
	case <-time.After(time.Second):
		t.Fatal("await did not return")
	}
}

func TestRelay_AwaitCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewRelay().Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRelay_Drain(t *testing.T) {
	r := NewRelay()
	assert.False(t, r.Drain())

	require.NoError(t, r.Submit("12345"))
	assert.True(t, r.Drain())

	// после очистки новый код принимается
	require.NoError(t, r.Submit("67890"))
}
