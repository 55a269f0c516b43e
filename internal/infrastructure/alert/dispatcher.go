// Package alert gửi cảnh báo vận hành (slow response) ra ngoài mà không chặn request path.
package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"playlist-backend/pkg/workerpool"
)

var ErrNotificationFailed = errors.New("alert notification failed")

// SlowResponse mô tả một request chậm
type SlowResponse struct {
	Method   string
	Path     string
	Duration time.Duration
}

// Message format: [API-RESPONSE] GET /api/v1/playlists/..., took 3120ms, signature
func (s SlowResponse) Message(signature string) string {
	return fmt.Sprintf("[API-RESPONSE] %s %s, took %dms, %s",
		s.Method, s.Path, s.Duration.Milliseconds(), signature)
}

// Poster là outbound transport (SlackClient trong production)
type Poster interface {
	PostMessage(ctx context.Context, text string) (bool, error)
}

// Dispatcher chạy outbound call trên pool riêng (1 worker)
type Dispatcher struct {
	poster    Poster
	pool      *workerpool.Pool
	signature string
	enabled   bool
}

func NewDispatcher(poster Poster, pool *workerpool.Pool, signature string, enabled bool) *Dispatcher {
	return &Dispatcher{
		poster:    poster,
		pool:      pool,
		signature: signature,
		enabled:   enabled,
	}
}

// Notify log cảnh báo ngay rồi submit outbound call, trả về không chờ.
// Lỗi outbound chỉ nằm trong future (wrap ErrNotificationFailed).
func (d *Dispatcher) Notify(ctx context.Context, event SlowResponse) *workerpool.Future[bool] {
	text := event.Message(d.signature)

	log.Warn().
		Str("method", event.Method).
		Str("path", event.Path).
		Int64("duration_ms", event.Duration.Milliseconds()).
		Msg(text)

	if !d.enabled || d.poster == nil {
		return workerpool.Resolved(false, nil)
	}

	// request có thể kết thúc trước khi alert gửi xong
	ctx = context.WithoutCancel(ctx)

	return workerpool.TrySubmit(ctx, d.pool, func(ctx context.Context) (bool, error) {
		ok, err := d.poster.PostMessage(ctx, text)
		if err != nil {
			log.Error().Err(err).Str("path", event.Path).Msg("[ALERT] Failed to send slow response alert")
			return false, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
		}
		if !ok {
			log.Warn().Str("path", event.Path).Msg("[ALERT] Alert endpoint responded ok=false")
		}
		return ok, nil
	})
}
