package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"playlist-backend/internal/domains/customplaylist/model"
	"playlist-backend/internal/domains/customplaylist/repository"
	songModel "playlist-backend/internal/domains/song/model"
	songRepo "playlist-backend/internal/domains/song/repository"
	"playlist-backend/pkg/database"
)

// ServiceInterface - business logic cho custom playlists
type ServiceInterface interface {
	Get(ctx context.Context, userID, customPlaylistID uuid.UUID) (*model.CustomPlaylistDetail, error)
	Gets(ctx context.Context, userID uuid.UUID) ([]*model.CustomPlaylistBrief, error)
	Create(ctx context.Context, userID uuid.UUID) (*model.CustomPlaylistBrief, error)
	Patch(ctx context.Context, userID, customPlaylistID uuid.UUID, title string) (*model.CustomPlaylistBrief, error)

	// AddSong insert child row và tăng song_cnt atomically, optimistic locking + bounded retry
	AddSong(ctx context.Context, userID, customPlaylistID, songID uuid.UUID) (*model.CustomPlaylistBrief, error)
}

type customPlaylistService struct {
	repo     repository.RepositoryInterface
	songRepo songRepo.RepositoryInterface
	tx       database.Transactor
	retry    database.RetryPolicy
}

// NewCustomPlaylistService tạo service
func NewCustomPlaylistService(
	repo repository.RepositoryInterface,
	songRepo songRepo.RepositoryInterface,
	tx database.Transactor,
	retry database.RetryPolicy,
) ServiceInterface {
	return &customPlaylistService{
		repo:     repo,
		songRepo: songRepo,
		tx:       tx,
		retry:    retry,
	}
}

func (s *customPlaylistService) Get(ctx context.Context, userID, customPlaylistID uuid.UUID) (*model.CustomPlaylistDetail, error) {
	playlist, err := database.WithTransactionResult(ctx, s.tx, func(tx pgx.Tx) (*model.CustomPlaylist, error) {
		return s.repo.FindByIDAndUserIDWithTx(ctx, tx, customPlaylistID, userID)
	})
	if err != nil {
		return nil, err
	}

	songs, err := s.repo.ListSongs(ctx, playlist.ID)
	if err != nil {
		return nil, err
	}

	return &model.CustomPlaylistDetail{
		ID:    playlist.ID,
		Title: playlist.Title,
		Songs: songs,
	}, nil
}

func (s *customPlaylistService) Gets(ctx context.Context, userID uuid.UUID) ([]*model.CustomPlaylistBrief, error) {
	playlists, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	briefs := make([]*model.CustomPlaylistBrief, 0, len(playlists))
	for _, p := range playlists {
		briefs = append(briefs, p.Brief())
	}
	return briefs, nil
}

// Create - title tự sinh "내 플레이리스트 #{số playlist hiện có + 1}"
func (s *customPlaylistService) Create(ctx context.Context, userID uuid.UUID) (*model.CustomPlaylistBrief, error) {
	existing, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	playlist := &model.CustomPlaylist{
		ID:     uuid.New(),
		UserID: userID,
		Title:  fmt.Sprintf("내 플레이리스트 #%d", len(existing)+1),
	}
	if err := s.repo.Create(ctx, playlist); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("custom_playlist_id", playlist.ID.String()).
		Msg("Custom playlist created")

	return playlist.Brief(), nil
}

func (s *customPlaylistService) Patch(ctx context.Context, userID, customPlaylistID uuid.UUID, title string) (*model.CustomPlaylistBrief, error) {
	if err := (model.PatchTitleRequest{Title: title}).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidTitle, err)
	}

	return s.mutate(ctx, userID, customPlaylistID, func(ctx context.Context, tx pgx.Tx, p *model.CustomPlaylist) error {
		p.Title = title
		return nil
	})
}

func (s *customPlaylistService) AddSong(ctx context.Context, userID, customPlaylistID, songID uuid.UUID) (*model.CustomPlaylistBrief, error) {
	brief, err := s.mutate(ctx, userID, customPlaylistID, func(ctx context.Context, tx pgx.Tx, p *model.CustomPlaylist) error {
		exists, err := s.songRepo.ExistsWithTx(ctx, tx, songID)
		if err != nil {
			return err
		}
		if !exists {
			return songModel.ErrSongNotFound
		}

		if err := s.repo.AddSongWithTx(ctx, tx, &model.CustomPlaylistSong{
			ID:               uuid.New(),
			CustomPlaylistID: p.ID,
			SongID:           songID,
		}); err != nil {
			return err
		}

		p.SongCnt++
		return nil
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("custom_playlist_id", customPlaylistID.String()).
			Str("song_id", songID.String()).
			Msg("Add song to custom playlist failed")
		return nil, err
	}
	return brief, nil
}

// mutate là read-modify-write với version guard. Mỗi attempt là một transaction mới:
// load aggregate (version hiện tại) → change → UPDATE ... WHERE version = read.
// Conflict → rollback cả tx (child rows cũng mất) rồi retry theo policy.
func (s *customPlaylistService) mutate(
	ctx context.Context,
	userID, customPlaylistID uuid.UUID,
	change func(ctx context.Context, tx pgx.Tx, p *model.CustomPlaylist) error,
) (*model.CustomPlaylistBrief, error) {
	return database.RetryOnConflict(ctx, s.retry, func(ctx context.Context, attempt int) (*model.CustomPlaylistBrief, error) {
		return database.WithTransactionResult(ctx, s.tx, func(tx pgx.Tx) (*model.CustomPlaylistBrief, error) {
			playlist, err := s.repo.FindByIDAndUserIDWithTx(ctx, tx, customPlaylistID, userID)
			if err != nil {
				return nil, err
			}

			readVersion := playlist.Version
			if err := change(ctx, tx, playlist); err != nil {
				return nil, err
			}

			if err := s.repo.UpdateWithVersion(ctx, tx, playlist, readVersion); err != nil {
				return nil, err
			}
			playlist.Version = readVersion + 1

			return playlist.Brief(), nil
		})
	})
}
