package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr struct {
	status int
}

func (e *statusErr) Error() string   { return fmt.Sprintf("status %d", e.status) }
func (e *statusErr) HTTPStatus() int { return e.status }

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), zerolog.Nop(), "op", fastConfig(3), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesRateLimit(t *testing.T) {
	calls := 0
	err := Do(context.Background(), zerolog.Nop(), "op", fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return &statusErr{status: 429}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoRetriesServerError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), zerolog.Nop(), "op", fastConfig(2), func() error {
		calls++
		return &statusErr{status: 503}
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoClientErrorIsPermanent(t *testing.T) {
	calls := 0
	wrapped := &statusErr{status: 400}
	err := Do(context.Background(), zerolog.Nop(), "op", fastConfig(5), func() error {
		calls++
		return fmt.Errorf("request failed: %w", wrapped)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, wrapped)
}

func TestDoRetriesPlainErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), zerolog.Nop(), "op", fastConfig(3), func() error {
		calls++
		return errors.New("connection reset")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, zerolog.Nop(), "op", fastConfig(10), func() error {
		calls++
		cancel()
		return &statusErr{status: 429}
	})
	require.Error(t, err)
	assert.LessOrEqual(t, calls, 2)
}

func TestDoInvalidConfigFallsBackToDefault(t *testing.T) {
	err := Do(context.Background(), zerolog.Nop(), "op", Config{}, func() error {
		return nil
	})
	assert.NoError(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.InitialInterval)
	assert.Equal(t, 30*time.Second, cfg.MaxInterval)
}
