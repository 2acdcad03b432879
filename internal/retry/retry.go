// Package retry is the single retry/backoff utility shared by every
// service client. Rate-limit (429) and server-side (5xx) responses are
// retried with exponential backoff; anything else fails immediately.
package retry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// StatusCoder is implemented by service API errors so the retry layer
// can tell rate limiting apart from permanent failures.
type StatusCoder interface {
	HTTPStatus() int
}

// Config bounds a retried operation.
type Config struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultConfig returns the bounds used by all sample binaries.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
	}
}

// Do runs fn with exponential backoff until it succeeds, a permanent
// error occurs, or the attempt budget is spent. ctx cancellation stops
// the wait between attempts.
func Do(ctx context.Context, logger zerolog.Logger, op string, cfg Config, fn func() error) error {
	if cfg.MaxAttempts < 1 {
		cfg = DefaultConfig()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.MaxInterval = cfg.MaxInterval
	b.MaxElapsedTime = 0

	attempt := 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxAttempts-1)), ctx)

	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}

		var sc StatusCoder
		if errors.As(err, &sc) {
			status := sc.HTTPStatus()
			if status != http.StatusTooManyRequests && status < 500 {
				return backoff.Permanent(err)
			}
			logger.Warn().
				Str("operation", op).
				Int("attempt", attempt).
				Int("status", status).
				Err(err).
				Msg("request failed, backing off")
			return err
		}

		logger.Warn().
			Str("operation", op).
			Int("attempt", attempt).
			Err(err).
			Msg("attempt failed")
		return err
	}, policy)
}
