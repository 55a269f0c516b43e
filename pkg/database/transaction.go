package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// WithTransaction function:
//     Begin transaction từ pool
//     Defer rollback - tự động rollback nếu fn return error hoặc panic
//     Commit nếu không có error
//     Lỗi từ fn được trả về nguyên vẹn để caller dùng errors.Is (VersionConflict, NotFound...)

// TxFunc là function type được execute trong transaction
type TxFunc func(pgx.Tx) error

// Beginner là bất kỳ thứ gì mở được transaction (*pgxpool.Pool, *pgx.Conn, pgx.Tx)
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Transactor là contract mà services dùng để chạy một unit of work.
// Services không giữ *pgxpool.Pool trực tiếp để có thể swap store trong tests.
type Transactor interface {
	WithTransaction(ctx context.Context, fn TxFunc) error
}

// PoolTransactor implements Transactor trên một Beginner (thường là pgxpool)
type PoolTransactor struct {
	db Beginner
}

// NewTransactor wraps một Beginner thành Transactor
func NewTransactor(db Beginner) *PoolTransactor {
	return &PoolTransactor{db: db}
}

// WithTransaction implements Transactor
func (t *PoolTransactor) WithTransaction(ctx context.Context, fn TxFunc) error {
	return WithTransaction(ctx, t.db, fn)
}

// WithTransaction wraps một function trong transaction
// Auto rollback nếu có error, auto commit nếu success
func WithTransaction(ctx context.Context, db Beginner, fn TxFunc) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", Classify(err))
	}

	// Defer rollback (no-op nếu đã commit)
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Warn().Err(rbErr).Msg("[DATABASE] Transaction rollback error")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", Classify(err))
	}

	return nil
}

// WithTransactionResult wraps function có return value trong transaction
func WithTransactionResult[T any](ctx context.Context, t Transactor, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T

	err := t.WithTransaction(ctx, func(tx pgx.Tx) error {
		var fnErr error
		result, fnErr = fn(tx)
		return fnErr
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
