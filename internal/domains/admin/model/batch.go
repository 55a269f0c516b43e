package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var (
	ErrEmptyBatch          = errors.New("batch contains no albums")
	ErrInvalidBatchFile    = errors.New("invalid batch file")
	ErrBatchPartialFailure = errors.New("batch partially failed")
)

// BatchSongInfo - một bài hát trong album
type BatchSongInfo struct {
	Title    string   `json:"title"`
	Duration int      `json:"duration"`
	Artists  []string `json:"artists"`
}

func (s BatchSongInfo) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Required, validation.RuneLength(1, 255)),
		validation.Field(&s.Duration, validation.Min(0)),
		validation.Field(&s.Artists, validation.Each(validation.Required)),
	)
}

// BatchAlbumInfo - một record trong albums.txt
type BatchAlbumInfo struct {
	Title  string          `json:"title"`
	Image  string          `json:"image"`
	Artist string          `json:"artist"`
	Songs  []BatchSongInfo `json:"songs"`
}

func (a BatchAlbumInfo) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Title, validation.Required, validation.RuneLength(1, 255)),
		validation.Field(&a.Artist, validation.Required),
		validation.Field(&a.Songs),
	)
}

// BatchItemResult - kết quả của một album
type BatchItemResult struct {
	Index   int        `json:"index"`
	Title   string     `json:"title"`
	AlbumID *uuid.UUID `json:"album_id,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Succeeded reports whether the album was committed
func (r BatchItemResult) Succeeded() bool {
	return r.Error == ""
}

// BatchResult - tổng hợp theo thứ tự submit
type BatchResult struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []BatchItemResult `json:"items"`
}
