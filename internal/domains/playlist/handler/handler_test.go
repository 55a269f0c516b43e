package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"playlist-backend/internal/domains/playlist/model"
	"playlist-backend/internal/shared/middleware"
	"playlist-backend/pkg/database"
)

type stubService struct {
	err error
}

func (s *stubService) RecordView(ctx context.Context, playlistID, userID uuid.UUID) error {
	return s.err
}

func (s *stubService) Get(ctx context.Context, playlistID, userID uuid.UUID) (*model.Playlist, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Playlist{ID: playlistID, Title: "Chill", ViewCnt: 42}, nil
}

func TestPlaylistHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		method string
		suffix string
		err    error
		want   int
	}{
		{"get", http.MethodGet, "", nil, http.StatusOK},
		{"record view", http.MethodPost, "/views", nil, http.StatusNoContent},
		{"not found", http.MethodGet, "", model.ErrPlaylistNotFound, http.StatusNotFound},
		{"lock wait", http.MethodPost, "/views", fmt.Errorf("%w: lock timeout", database.ErrLockWait), http.StatusServiceUnavailable},
		{"unexpected", http.MethodPost, "/views", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPlaylistHandler(&stubService{err: tt.err})
			r := gin.New()
			r.Use(func(c *gin.Context) { c.Set(middleware.ContextUserID, uuid.New()) })
			r.GET("/playlists/:id", h.Get)
			r.POST("/playlists/:id/views", h.RecordView)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, "/playlists/"+uuid.NewString()+tt.suffix, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}

	t.Run("invalid id", func(t *testing.T) {
		h := NewPlaylistHandler(&stubService{})
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(middleware.ContextUserID, uuid.New()) })
		r.GET("/playlists/:id", h.Get)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/playlists/nope", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
