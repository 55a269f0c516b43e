package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"playlist-backend/internal/domains/customplaylist/model"
	"playlist-backend/internal/domains/customplaylist/service"
	"playlist-backend/internal/shared/middleware"
	"playlist-backend/internal/shared/response"
	"playlist-backend/internal/shared/utils"
)

// =====================================================
// CUSTOM PLAYLIST HANDLER
// =====================================================

type CustomPlaylistHandler struct {
	service service.ServiceInterface
}

func NewCustomPlaylistHandler(s service.ServiceInterface) *CustomPlaylistHandler {
	return &CustomPlaylistHandler{service: s}
}

// Create creates a custom playlist with generated title
// POST /api/v1/custom-playlists
func (h *CustomPlaylistHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	brief, err := h.service.Create(c.Request.Context(), userID)
	if model.HandleCustomPlaylistError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, brief)
}

// Gets lists the caller's custom playlists
// GET /api/v1/custom-playlists
func (h *CustomPlaylistHandler) Gets(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	briefs, err := h.service.Gets(c.Request.Context(), userID)
	if model.HandleCustomPlaylistError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, briefs)
}

// Get returns one custom playlist with its songs
// GET /api/v1/custom-playlists/:id
func (h *CustomPlaylistHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid custom playlist id")
		return
	}

	detail, err := h.service.Get(c.Request.Context(), userID, id)
	if model.HandleCustomPlaylistError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// Patch renames a custom playlist
// PATCH /api/v1/custom-playlists/:id
func (h *CustomPlaylistHandler) Patch(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid custom playlist id")
		return
	}

	var req model.PatchTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	brief, err := h.service.Patch(c.Request.Context(), userID, id, req.Title)
	if model.HandleCustomPlaylistError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, brief)
}

// AddSong appends a song; concurrent calls are reconciled by optimistic retry
// POST /api/v1/custom-playlists/:id/songs/:songId
func (h *CustomPlaylistHandler) AddSong(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid custom playlist id")
		return
	}
	songID, ok := utils.ParseUUIDParam(c, "songId")
	if !ok {
		response.BadRequest(c, "invalid song id")
		return
	}

	brief, err := h.service.AddSong(c.Request.Context(), userID, id, songID)
	if model.HandleCustomPlaylistError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, brief)
}
