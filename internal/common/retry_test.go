package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/service"
)

func fastOpts() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1.0,
	}
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("transient"), Retryable: true}
		}
		return nil
	}, fastOpts())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return errors.New("always fails")
	}, fastOpts())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMaxRetries))
	assert.Equal(t, 3, calls)
}

func TestWithRetry_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	permanent := errors.New("bad request")
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{Err: permanent, Retryable: false}
	}, fastOpts())

	require.Error(t, err)
	assert.True(t, errors.Is(err, permanent))
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	opts := fastOpts()
	opts.InitialDelay = time.Hour
	opts.MaxDelay = time.Hour

	errCh := make(chan error, 1)
	go func() {
		errCh <- WithRetry(ctx, func() error {
			calls++
			return errors.New("transient")
		}, opts)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("WithRetry did not return after cancellation")
	}
}

func TestRetryableError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	wrapped := &RetryableError{Err: inner, Retryable: true}
	assert.True(t, errors.Is(wrapped, inner))
	assert.Equal(t, "inner", wrapped.Error())
}
