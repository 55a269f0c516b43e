package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"playlist-backend/internal/domains/playlist/model"
	"playlist-backend/internal/domains/playlist/service"
	"playlist-backend/internal/shared/middleware"
	"playlist-backend/internal/shared/response"
	"playlist-backend/internal/shared/utils"
)

type PlaylistHandler struct {
	service service.ServiceInterface
}

func NewPlaylistHandler(s service.ServiceInterface) *PlaylistHandler {
	return &PlaylistHandler{service: s}
}

// Get records the caller's view and returns the playlist
// GET /api/v1/playlists/:id
func (h *PlaylistHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid playlist id")
		return
	}

	playlist, err := h.service.Get(c.Request.Context(), id, userID)
	if model.HandlePlaylistError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, playlist)
}

// RecordView
// POST /api/v1/playlists/:id/views
func (h *PlaylistHandler) RecordView(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid playlist id")
		return
	}

	if model.HandlePlaylistError(c, h.service.RecordView(c.Request.Context(), id, userID)) {
		return
	}

	c.Status(http.StatusNoContent)
}
