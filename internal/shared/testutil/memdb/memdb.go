// Package memdb is an in-memory stand-in for PostgreSQL used by service tests.
//
// It reproduces the three store behaviours the services rely on: writes are
// staged per transaction and validated at commit (expected-version checks),
// per-key locks are held until the transaction ends (row / advisory locks),
// and a key reserved by an uncommitted insert blocks other inserters until the
// owner commits or rolls back (unique index behaviour).
package memdb

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"playlist-backend/pkg/database"
)

// DB is a database.Transactor.
type DB struct {
	mu    sync.Mutex
	locks sync.Map // key -> chan struct{} (1 slot)

	commits   int
	rollbacks int
}

// New tạo DB rỗng
func New() *DB {
	return &DB{}
}

var _ database.Transactor = (*DB)(nil)

type op struct {
	check func() error
	apply func()
}

// Tx is handed to repositories as a pgx.Tx. Only the embedded interface
// satisfies pgx.Tx; calling any pgx method on it panics.
type Tx struct {
	pgx.Tx
	db   *DB
	ctx  context.Context
	ops  []op
	held []chan struct{}

	locals map[string]any
}

// From lấy *Tx từ pgx.Tx mà fake repositories nhận được
func From(tx pgx.Tx) *Tx {
	return tx.(*Tx)
}

// WithTransaction implements database.Transactor
func (db *DB) WithTransaction(ctx context.Context, fn database.TxFunc) error {
	tx := &Tx{db: db, ctx: ctx}
	defer tx.release()

	if err := fn(tx); err != nil {
		db.mu.Lock()
		db.rollbacks++
		db.mu.Unlock()
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	for _, o := range tx.ops {
		if o.check == nil {
			continue
		}
		if err := o.check(); err != nil {
			db.rollbacks++
			return err
		}
	}
	for _, o := range tx.ops {
		if o.apply != nil {
			o.apply()
		}
	}
	db.commits++
	return nil
}

// Stats trả về số commit / rollback đã xảy ra
func (db *DB) Stats() (commits, rollbacks int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.commits, db.rollbacks
}

// Read chạy fn trên committed state
func (db *DB) Read(fn func()) {
	db.mu.Lock()
	defer db.mu.Unlock()
	fn()
}

// Stage đăng ký một write: check chạy lúc commit (lỗi → cả tx rollback), apply chạy sau khi mọi check pass.
func (tx *Tx) Stage(check func() error, apply func()) {
	tx.ops = append(tx.ops, op{check: check, apply: apply})
}

// Local trả về state gắn với tx (read-your-own-writes cho fake repositories).
// init chạy lần đầu key được truy cập trong tx.
func (tx *Tx) Local(key string, init func() any) any {
	if tx.locals == nil {
		tx.locals = make(map[string]any)
	}
	v, ok := tx.locals[key]
	if !ok {
		v = init()
		tx.locals[key] = v
	}
	return v
}

// DB trả về store của tx
func (tx *Tx) DB() *DB {
	return tx.db
}

// Lock giữ khóa exclusive cho key đến khi tx kết thúc.
// Block nếu tx khác đang giữ, trả ctx.Err() nếu ctx bị cancel.
func (tx *Tx) Lock(key string) error {
	v, _ := tx.db.locks.LoadOrStore(key, make(chan struct{}, 1))
	sem := v.(chan struct{})

	for _, h := range tx.held {
		if h == sem {
			return nil
		}
	}

	select {
	case sem <- struct{}{}:
		tx.held = append(tx.held, sem)
		return nil
	case <-tx.ctx.Done():
		return database.Classify(tx.ctx.Err())
	}
}

func (tx *Tx) release() {
	for i := len(tx.held) - 1; i >= 0; i-- {
		<-tx.held[i]
	}
	tx.held = nil
}
