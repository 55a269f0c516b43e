package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	songModel "playlist-backend/internal/domains/song/model"
	"playlist-backend/internal/shared/response"
	"playlist-backend/pkg/database"
)

var (
	ErrCustomPlaylistNotFound = errors.New("custom playlist not found")
	ErrInvalidTitle           = errors.New("title must not be blank")
)

var customPlaylistErrorMap = []struct {
	Err     error
	Status  int
	Code    string
	Message string
}{
	{ErrCustomPlaylistNotFound, http.StatusNotFound, "CUSTOM_PLAYLIST_NOT_FOUND", "The specified custom playlist does not exist"},
	{songModel.ErrSongNotFound, http.StatusNotFound, "SONG_NOT_FOUND", "The specified song does not exist"},
	{ErrInvalidTitle, http.StatusBadRequest, "INVALID_TITLE", "Title must not be blank"},
	{database.ErrConcurrencyExhausted, http.StatusConflict, "CONCURRENCY_EXHAUSTED", "The playlist is being modified concurrently. Please try again"},
	{database.ErrLockWait, http.StatusServiceUnavailable, "LOCK_WAIT", "The playlist is busy. Please try again"},
}

// HandleCustomPlaylistError map error sang HTTP response. Trả về false nếu err == nil.
func HandleCustomPlaylistError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for _, e := range customPlaylistErrorMap {
		if errors.Is(err, e.Err) {
			response.ErrorResponse(c, e.Status, e.Code, e.Message)
			return true
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[Handler] Custom playlist error")
	response.InternalServerError(c, "Internal server error")
	return true
}
