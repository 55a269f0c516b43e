package model

import (
	"time"

	"github.com/google/uuid"

	songModel "playlist-backend/internal/domains/song/model"
)

// CustomPlaylist là aggregate: song_cnt luôn bằng số custom_playlist_songs,
// version tăng 1 sau mỗi mutation đã commit.
type CustomPlaylist struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	SongCnt   int       `json:"song_cnt"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomPlaylistSong chỉ được tạo qua AddSong và chỉ bị xóa theo cascade
type CustomPlaylistSong struct {
	ID               uuid.UUID `json:"id"`
	CustomPlaylistID uuid.UUID `json:"custom_playlist_id"`
	SongID           uuid.UUID `json:"song_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// CustomPlaylistBrief - response cho list / add song / patch
type CustomPlaylistBrief struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	SongCnt int       `json:"song_cnt"`
	Version int       `json:"version"`
}

// CustomPlaylistDetail - response cho GET /:id
type CustomPlaylistDetail struct {
	ID    uuid.UUID        `json:"id"`
	Title string           `json:"title"`
	Songs []songModel.Song `json:"songs"`
}

// Brief convert entity sang brief
func (p *CustomPlaylist) Brief() *CustomPlaylistBrief {
	return &CustomPlaylistBrief{
		ID:      p.ID,
		Title:   p.Title,
		SongCnt: p.SongCnt,
		Version: p.Version,
	}
}
