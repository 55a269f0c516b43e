package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"playlist-backend/internal/domains/playlist/model"
)

// RepositoryInterface - data access cho playlists và playlist views
type RepositoryInterface interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error)

	// LockViews khóa exclusive theo key (playlistID, userID) đến hết tx và trả về
	// các view rows hiện có của key đó. Tx khác gọi cùng key sẽ block tại đây.
	LockViews(ctx context.Context, tx pgx.Tx, playlistID, userID uuid.UUID) ([]*model.PlaylistView, error)

	CreateViewWithTx(ctx context.Context, tx pgx.Tx, view *model.PlaylistView) error

	// IncrementViewCount là UPDATE không kiểm tra version; ErrPlaylistNotFound nếu 0 rows
	IncrementViewCount(ctx context.Context, tx pgx.Tx, playlistID uuid.UUID) error
}
