package utils

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var multiSpace = regexp.MustCompile(`\s+`)

// ParseUUIDParam đọc path param dạng UUID, uuid.Nil + false nếu không hợp lệ
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// NormalizeName trim và gộp whitespace liên tiếp ("  Daft   Punk " → "Daft Punk").
// Unique key so sánh trên tên đã normalize.
func NormalizeName(name string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(name), " ")
}
