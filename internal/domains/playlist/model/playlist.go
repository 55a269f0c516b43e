package model

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"playlist-backend/internal/shared/response"
	"playlist-backend/pkg/database"
)

var ErrPlaylistNotFound = errors.New("playlist not found")

// Playlist - view_cnt tăng đúng 1 lần cho mỗi cặp (playlist, user) mới
type Playlist struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ViewCnt   int       `json:"view_cnt"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaylistView - append-only, không có unique constraint trên (playlist_id, user_id)
type PlaylistView struct {
	ID         uuid.UUID `json:"id"`
	PlaylistID uuid.UUID `json:"playlist_id"`
	UserID     uuid.UUID `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// HandlePlaylistError map error sang HTTP response
func HandlePlaylistError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrPlaylistNotFound):
		response.ErrorResponse(c, http.StatusNotFound, "PLAYLIST_NOT_FOUND", "The specified playlist does not exist")
	case errors.Is(err, database.ErrLockWait):
		response.ErrorResponse(c, http.StatusServiceUnavailable, "LOCK_WAIT", "The playlist is busy. Please try again")
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("[Handler] Playlist error")
		response.InternalServerError(c, "Internal server error")
	}
	return true
}
