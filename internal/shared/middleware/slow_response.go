package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"playlist-backend/internal/infrastructure/alert"
	"playlist-backend/pkg/workerpool"
)

// SlowResponseNotifier nhận cảnh báo request chậm (alert.Dispatcher)
type SlowResponseNotifier interface {
	Notify(ctx context.Context, event alert.SlowResponse) *workerpool.Future[bool]
}

// SlowResponse đo latency sau c.Next(); latency >= threshold → notifier.
// Không chờ kết quả notify.
func SlowResponse(notifier SlowResponseNotifier, threshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		if threshold <= 0 || latency < threshold {
			return
		}

		notifier.Notify(c.Request.Context(), alert.SlowResponse{
			Method:   c.Request.Method,
			Path:     c.Request.URL.Path,
			Duration: latency,
		})
	}
}
