package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"playlist-backend/internal/shared/response"
	"playlist-backend/pkg/workerpool"
)

var adminErrorMap = []struct {
	Err     error
	Status  int
	Code    string
	Message string
}{
	{ErrEmptyBatch, http.StatusBadRequest, "EMPTY_BATCH", "Batch contains no albums"},
	{ErrInvalidBatchFile, http.StatusBadRequest, "INVALID_BATCH_FILE", "albums.txt must be a JSON array of albums"},
	{workerpool.ErrPoolClosed, http.StatusServiceUnavailable, "SERVER_SHUTTING_DOWN", "Server is shutting down"},
}

// HandleAdminError map error sang HTTP response. Trả về false nếu err == nil.
func HandleAdminError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for _, e := range adminErrorMap {
		if errors.Is(err, e.Err) {
			response.ErrorResponse(c, e.Status, e.Code, e.Message)
			return true
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[Handler] Admin error")
	response.InternalServerError(c, "Internal server error")
	return true
}
