package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"playlist-backend/internal/domains/playlist/model"
	"playlist-backend/internal/domains/playlist/repository"
	"playlist-backend/pkg/database"
)

// ServiceInterface - playlist views
type ServiceInterface interface {
	// RecordView tăng view_cnt đúng 1 lần cho mỗi cặp (playlist, user), kể cả khi
	// nhiều request cùng cặp chạy đồng thời.
	RecordView(ctx context.Context, playlistID, userID uuid.UUID) error

	// Get ghi nhận view rồi trả về playlist với view_cnt hiện tại
	Get(ctx context.Context, playlistID, userID uuid.UUID) (*model.Playlist, error)
}

type playlistService struct {
	repo repository.RepositoryInterface
	tx   database.Transactor
}

// NewPlaylistService tạo service
func NewPlaylistService(repo repository.RepositoryInterface, tx database.Transactor) ServiceInterface {
	return &playlistService{repo: repo, tx: tx}
}

// RecordView - pessimistic lock scope:
// lock(key) → check đã có view chưa → insert view + view_cnt+1 → commit (release lock).
// Không retry: khi đã có lock thì chỉ fail vì lỗi của tx (deadlock, timeout...).
func (s *playlistService) RecordView(ctx context.Context, playlistID, userID uuid.UUID) error {
	counted := false

	err := s.tx.WithTransaction(ctx, func(tx pgx.Tx) error {
		views, err := s.repo.LockViews(ctx, tx, playlistID, userID)
		if err != nil {
			return err
		}
		if len(views) > 0 {
			return nil
		}

		if err := s.repo.CreateViewWithTx(ctx, tx, &model.PlaylistView{
			ID:         uuid.New(),
			PlaylistID: playlistID,
			UserID:     userID,
		}); err != nil {
			return err
		}

		// lock đã serialize mọi writer của key này, không cần version check
		if err := s.repo.IncrementViewCount(ctx, tx, playlistID); err != nil {
			return err
		}

		counted = true
		return nil
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("playlist_id", playlistID.String()).
			Str("user_id", userID.String()).
			Msg("Record playlist view failed")
		return err
	}

	if counted {
		log.Debug().
			Str("playlist_id", playlistID.String()).
			Str("user_id", userID.String()).
			Msg("Playlist view counted")
	}
	return nil
}

func (s *playlistService) Get(ctx context.Context, playlistID, userID uuid.UUID) (*model.Playlist, error) {
	if err := s.RecordView(ctx, playlistID, userID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, playlistID)
}
