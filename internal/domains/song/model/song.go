package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSongNotFound  = errors.New("song not found")
	ErrAlbumNotFound = errors.New("album not found")
)

// Album là album trong catalog (immutable sau khi ingest)
type Album struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	ArtistID  uuid.UUID `json:"artist_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Song là bài hát thuộc một album
type Song struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Duration  int       `json:"duration"` // seconds
	AlbumID   uuid.UUID `json:"album_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SongArtist là bảng nối song <-> artist
type SongArtist struct {
	SongID   uuid.UUID `json:"song_id"`
	ArtistID uuid.UUID `json:"artist_id"`
}
