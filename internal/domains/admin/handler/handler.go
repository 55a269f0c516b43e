package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"playlist-backend/internal/domains/admin/model"
	"playlist-backend/internal/domains/admin/service"
	"playlist-backend/internal/shared/response"
)

// BatchFileField là tên multipart part chứa danh sách album
const BatchFileField = "albums.txt"

// maxBatchSize giới hạn kích thước file upload
const maxBatchSize = 32 << 20

type AdminHandler struct {
	service service.ServiceInterface
}

func NewAdminHandler(s service.ServiceInterface) *AdminHandler {
	return &AdminHandler{service: s}
}

// InsertAlbums ingests albums from albums.txt (multipart) or a raw JSON body
// POST /admin/v1/batch/albums
func (h *AdminHandler) InsertAlbums(c *gin.Context) {
	infos, err := readBatch(c)
	if model.HandleAdminError(c, err) {
		return
	}

	result, err := h.service.InsertAlbums(c.Request.Context(), infos)
	if errors.Is(err, model.ErrBatchPartialFailure) {
		response.Success(c, http.StatusMultiStatus, result)
		return
	}
	if model.HandleAdminError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func readBatch(c *gin.Context) ([]model.BatchAlbumInfo, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchSize)
	var r io.Reader = c.Request.Body

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile(BatchFileField)
		if err != nil {
			return nil, fmt.Errorf("%w: missing %s part: %v", model.ErrInvalidBatchFile, BatchFileField, err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidBatchFile, err)
		}
		defer f.Close()
		r = f
	}

	var infos []model.BatchAlbumInfo
	if err := json.NewDecoder(r).Decode(&infos); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidBatchFile, err)
	}
	if len(infos) == 0 {
		return nil, model.ErrEmptyBatch
	}
	return infos, nil
}
