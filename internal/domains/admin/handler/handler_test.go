package handler

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-backend/internal/domains/admin/model"
)

type stubService struct {
	got    []model.BatchAlbumInfo
	result *model.BatchResult
	err    error
}

func (s *stubService) InsertAlbums(ctx context.Context, infos []model.BatchAlbumInfo) (*model.BatchResult, error) {
	s.got = infos
	if s.result == nil {
		s.result = &model.BatchResult{Total: len(infos), Succeeded: len(infos)}
	}
	return s.result, s.err
}

func newRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/admin/v1/batch/albums", NewAdminHandler(svc).InsertAlbums)
	return r
}

const albumsJSON = `[
  {"title":"OK Computer","image":"ok.jpg","artist":"Radiohead",
   "songs":[{"title":"Airbag","duration":284,"artists":["Radiohead"]}]}
]`

func multipartRequest(t *testing.T, field, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, field)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/v1/batch/albums", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestInsertAlbums_Multipart(t *testing.T) {
	svc := &stubService{}
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, multipartRequest(t, BatchFileField, albumsJSON))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.got, 1)
	assert.Equal(t, "OK Computer", svc.got[0].Title)
	assert.Equal(t, 284, svc.got[0].Songs[0].Duration)
}

func TestInsertAlbums_RawJSON(t *testing.T) {
	svc := &stubService{}
	req := httptest.NewRequest(http.MethodPost, "/admin/v1/batch/albums", strings.NewReader(albumsJSON))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.got, 1)
}

func TestInsertAlbums_PartialFailure(t *testing.T) {
	svc := &stubService{
		result: &model.BatchResult{Total: 2, Succeeded: 1, Failed: 1},
		err:    fmt.Errorf("%w: album #1: boom", model.ErrBatchPartialFailure),
	}
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, multipartRequest(t, BatchFileField, albumsJSON))

	assert.Equal(t, http.StatusMultiStatus, w.Code)
	assert.Contains(t, w.Body.String(), `"failed":1`)
}

func TestInsertAlbums_BadInput(t *testing.T) {
	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{"wrong part name", func(t *testing.T) *http.Request { return multipartRequest(t, "other.txt", albumsJSON) }},
		{"not json", func(t *testing.T) *http.Request { return multipartRequest(t, BatchFileField, "title,artist") }},
		{"empty array", func(t *testing.T) *http.Request { return multipartRequest(t, BatchFileField, "[]") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, tt.req(t))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, svc.got)
		})
	}
}
