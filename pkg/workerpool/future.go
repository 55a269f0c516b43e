package workerpool

import (
	"context"
	"sync"
)

// Future là handle cho kết quả của một task đã submit
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved tạo future đã có kết quả sẵn
func Resolved[T any](v T, err error) *Future[T] {
	f := newFuture[T]()
	f.resolve(v, err)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
	})
}

// Done đóng khi task hoàn tất
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Get block cho đến khi task xong
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.val, f.err
}

// Wait giống Get nhưng bỏ cuộc khi ctx bị cancel (task vẫn chạy tiếp)
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
