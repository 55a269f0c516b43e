package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes mà store layer phân loại
const (
	CodeUniqueViolation   = "23505"
	CodeForeignKey        = "23503"
	CodeDeadlockDetected  = "40P01"
	CodeLockNotAvailable  = "55P03"
	CodeQueryCanceled     = "57014"
	CodeSerializationFail = "40001"
)

var (
	// ErrVersionConflict: expected-version UPDATE không match row nào
	ErrVersionConflict = errors.New("version conflict: aggregate was modified by another transaction")

	// ErrConcurrencyExhausted: hết số lần retry cho version conflict
	ErrConcurrencyExhausted = errors.New("concurrency exhausted: reached maximum attempts")

	// ErrLockWait: deadlock, lock timeout hoặc statement timeout khi chờ lock
	ErrLockWait = errors.New("lock wait failure")
)

// IsUniqueViolation checks if an error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == CodeUniqueViolation
	}
	return false
}

// IsForeignKeyViolation - row được tham chiếu không tồn tại
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == CodeForeignKey
	}
	return false
}

// IsLockWaitFailure reports deadlock / lock_timeout / statement_timeout errors.
func IsLockWaitFailure(err error) bool {
	if errors.Is(err, ErrLockWait) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case CodeDeadlockDetected, CodeLockNotAvailable, CodeQueryCanceled:
			return true
		}
	}
	return false
}

// Classify gắn sentinel error phù hợp vào error từ driver, giữ nguyên chain gốc
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if IsLockWaitFailure(err) && !errors.Is(err, ErrLockWait) {
		return fmt.Errorf("%w: %w", ErrLockWait, err)
	}
	return err
}
