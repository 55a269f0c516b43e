package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxAttempts = 10
	DefaultBackoff     = 100 * time.Millisecond
)

// RetryPolicy cấu hình vòng retry cho optimistic locking.
// Backoff là fixed delay (không exponential) giữa các attempts.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy trả về policy mặc định: 10 attempts, 100ms
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, Backoff: DefaultBackoff}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	return p
}

// RetryOnConflict chạy fn cho đến khi fn không còn trả về ErrVersionConflict.
// Mỗi attempt phải là một read-modify-write hoàn chỉnh (transaction mới, đọc lại version).
// Lỗi khác ErrVersionConflict được trả về ngay, không retry.
// Hết MaxAttempts → ErrConcurrencyExhausted (wrap conflict cuối cùng).
func RetryOnConflict[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	policy = policy.normalized()

	var zero T
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return zero, err
		}
		lastErr = err

		log.Debug().
			Int("attempt", attempt).
			Int("max_attempts", policy.MaxAttempts).
			Msg("[OPTIMISTIC] Version conflict, retrying")

		if attempt == policy.MaxAttempts {
			break
		}

		timer := time.NewTimer(policy.Backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrConcurrencyExhausted, policy.MaxAttempts, lastErr)
}
