package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"playlist-backend/internal/domains/customplaylist/model"
	songModel "playlist-backend/internal/domains/song/model"
)

// RepositoryInterface - data access cho custom playlists
type RepositoryInterface interface {
	Create(ctx context.Context, playlist *model.CustomPlaylist) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.CustomPlaylist, error)
	ListSongs(ctx context.Context, playlistID uuid.UUID) ([]songModel.Song, error)

	// FindByIDAndUserIDWithTx load aggregate kèm version hiện tại
	FindByIDAndUserIDWithTx(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) (*model.CustomPlaylist, error)

	// AddSongWithTx insert child row; chỉ có hiệu lực nếu UpdateWithVersion cùng tx thành công
	AddSongWithTx(ctx context.Context, tx pgx.Tx, item *model.CustomPlaylistSong) error

	// UpdateWithVersion ghi title/song_cnt và tăng version, chỉ khi version trong DB == expectedVersion.
	// Không match → database.ErrVersionConflict.
	UpdateWithVersion(ctx context.Context, tx pgx.Tx, playlist *model.CustomPlaylist, expectedVersion int) error
}
