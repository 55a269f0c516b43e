package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryOnConflict(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 10, Backoff: time.Millisecond}

	t.Run("succeeds after conflicts", func(t *testing.T) {
		calls := 0
		got, err := RetryOnConflict(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
			calls++
			assert.Equal(t, calls, attempt)
			if attempt < 3 {
				return 0, ErrVersionConflict
			}
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausted after max attempts", func(t *testing.T) {
		calls := 0
		_, err := RetryOnConflict(context.Background(), policy, func(ctx context.Context, attempt int) (struct{}, error) {
			calls++
			return struct{}{}, ErrVersionConflict
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConcurrencyExhausted)
		assert.ErrorIs(t, err, ErrVersionConflict)
		assert.Equal(t, 10, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		_, err := RetryOnConflict(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
			calls++
			return 0, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrConcurrencyExhausted)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops the backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := RetryPolicy{MaxAttempts: 5, Backoff: time.Hour}
		_, err := RetryOnConflict(ctx, slow, func(ctx context.Context, attempt int) (int, error) {
			cancel()
			return 0, ErrVersionConflict
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("zero policy falls back to defaults", func(t *testing.T) {
		p := RetryPolicy{}.normalized()
		assert.Equal(t, DefaultMaxAttempts, p.MaxAttempts)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		unique   bool
		lockWait bool
	}{
		{"unique violation", &pgconn.PgError{Code: CodeUniqueViolation}, true, false},
		{"deadlock", &pgconn.PgError{Code: CodeDeadlockDetected}, false, true},
		{"lock timeout", &pgconn.PgError{Code: CodeLockNotAvailable}, false, true},
		{"statement timeout", &pgconn.PgError{Code: CodeQueryCanceled}, false, true},
		{"plain error", errors.New("x"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueViolation(tt.err))
			classified := Classify(tt.err)
			assert.Equal(t, tt.lockWait, errors.Is(classified, ErrLockWait))
			assert.ErrorIs(t, classified, tt.err)
		})
	}

	assert.NoError(t, Classify(nil))
}
