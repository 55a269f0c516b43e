// Package workerpool provides a fixed-size goroutine pool with an explicit
// lifecycle: created at process start, shut down at process stop.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrPoolClosed    = errors.New("worker pool is closed")
	ErrQueueFull     = errors.New("worker pool queue is full")
	ErrTaskPanicked  = errors.New("worker pool task panicked")
	ErrInvalidConfig = errors.New("worker pool: size must be positive")
)

// DefaultQueueSize là số task tối đa chờ trong queue
const DefaultQueueSize = 1024

// Config cho một pool
type Config struct {
	Name      string
	Size      int
	QueueSize int
}

// Pool chạy task trên đúng Size goroutines
type Pool struct {
	name  string
	size  int
	tasks chan func()
	group errgroup.Group

	mu     sync.RWMutex
	closed bool
}

// New tạo pool và start workers ngay
func New(cfg Config) (*Pool, error) {
	if cfg.Size <= 0 {
		return nil, ErrInvalidConfig
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Name == "" {
		cfg.Name = "default"
	}

	p := &Pool{
		name:  cfg.Name,
		size:  cfg.Size,
		tasks: make(chan func(), cfg.QueueSize),
	}

	for i := 0; i < cfg.Size; i++ {
		p.group.Go(p.work)
	}

	log.Info().Str("pool", p.name).Int("size", p.size).Msg("[WORKERPOOL] Started")
	return p, nil
}

// Size trả về số workers
func (p *Pool) Size() int { return p.size }

func (p *Pool) work() error {
	for task := range p.tasks {
		task()
	}
	return nil
}

// enqueue đưa task vào queue. block=false thì trả ErrQueueFull khi đầy.
func (p *Pool) enqueue(ctx context.Context, task func(), block bool) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	if !block {
		select {
		case p.tasks <- task:
			return nil
		default:
			return ErrQueueFull
		}
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown ngừng nhận task mới, chờ workers xử lý hết queue.
// Trả về ctx.Err() nếu hết thời gian chờ; workers vẫn tiếp tục drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = p.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Str("pool", p.name).Msg("[WORKERPOOL] Stopped")
		return nil
	case <-ctx.Done():
		log.Warn().Str("pool", p.name).Msg("[WORKERPOOL] Shutdown timeout exceeded")
		return ctx.Err()
	}
}

// Submit đưa fn vào pool, block nếu queue đầy (tôn trọng ctx).
// fn nhận ctx của caller.
func Submit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) *Future[T] {
	return submit(ctx, p, fn, true)
}

// TrySubmit giống Submit nhưng không bao giờ block caller:
// queue đầy → future resolve ngay với ErrQueueFull.
func TrySubmit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) *Future[T] {
	return submit(ctx, p, fn, false)
}

func submit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error), block bool) *Future[T] {
	f := newFuture[T]()

	task := func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("pool", p.name).Interface("panic", r).Msg("[WORKERPOOL] Task panicked")
				var zero T
				f.resolve(zero, fmt.Errorf("%w: %v", ErrTaskPanicked, r))
			}
		}()
		v, err := fn(ctx)
		f.resolve(v, err)
	}

	if err := p.enqueue(ctx, task, block); err != nil {
		var zero T
		f.resolve(zero, err)
	}

	return f
}
