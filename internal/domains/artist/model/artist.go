package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrArtistNotFound = errors.New("artist not found")
	ErrInvalidName    = errors.New("artist name is required")

	// ErrDuplicateName: insert vi phạm unique index trên artists.name
	ErrDuplicateName = errors.New("artist name already exists")

	// ErrArtistVanished: insert báo duplicate nhưng re-query không thấy row.
	// Chỉ xảy ra khi transaction boundaries sai (tx kia rollback giữa chừng).
	ErrArtistVanished = errors.New("artist vanished after unique violation")
)

// Artist có name unique trên toàn bảng
type Artist struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
