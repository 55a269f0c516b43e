package middleware

import (
	"github.com/gin-gonic/gin"

	"playlist-backend/internal/shared/response"
)

// AdminMiddleware checks if user has admin role (chạy sau AuthMiddleware)
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		if !ok || role != "admin" {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
