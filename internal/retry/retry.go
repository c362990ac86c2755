package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrInvalidConfig is returned when a Config allows no attempt at all.
var ErrInvalidConfig = errors.New("retry: max attempts must be at least 1")

type Config struct {
	// MaxAttempts counts the first call.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Timeout bounds each attempt; zero leaves the attempt unbounded.
	Timeout time.Duration
	// Retryable decides whether a failed attempt is tried again. A nil
	// predicate retries every error.
	Retryable func(error) bool
}

func (c Config) retryable(err error) bool {
	if c.Retryable == nil {
		return true
	}
	return c.Retryable(err)
}

// Do runs an operation that only reports an error.
func Do(ctx context.Context, config Config, operation func(context.Context) error) error {
	_, err := WithRetry(ctx, config, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})
	return err
}

func WithRetry[T any](ctx context.Context, config Config, operation func(context.Context) (T, error)) (T, error) {
	var zero T
	if config.MaxAttempts < 1 {
		return zero, ErrInvalidConfig
	}

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := runAttempt(ctx, config.Timeout, operation)
		if err == nil {
			return result, nil
		}

		log.Debug().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_attempts", config.MaxAttempts).
			Msg("Operation failed")

		if !config.retryable(err) {
			return zero, err
		}

		if attempt+1 < config.MaxAttempts {
			delay := calculateBackoffDelay(attempt, config.BaseDelay, config.MaxDelay)
			log.Warn().
				Err(err).
				Dur("delay", delay).
				Int("next_attempt", attempt+2).
				Msg("Transient failure, retrying after delay")

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
		return zero, fmt.Errorf("operation failed after %d attempts: %w", config.MaxAttempts, err)
	}
	return zero, fmt.Errorf("unexpected: exceeded retry loop")
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, operation func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return operation(ctx)
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return operation(opCtx)
}

// calculateBackoffDelay doubles the base delay per attempt, capped at maxDelay
// when one is set.
func calculateBackoffDelay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	// Cap attempt at 30 to prevent overflow (2^30 is safe for int)
	safeAttempt := min(attempt, 30)
	delay := time.Duration(1<<safeAttempt) * baseDelay

	if maxDelay > 0 && (delay > maxDelay || delay < 0) {
		delay = maxDelay
	}
	return delay
}
