package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"playlist-backend/internal/domains/admin/model"
	artistService "playlist-backend/internal/domains/artist/service"
	songModel "playlist-backend/internal/domains/song/model"
	songRepo "playlist-backend/internal/domains/song/repository"
	"playlist-backend/pkg/database"
	"playlist-backend/pkg/workerpool"
)

// ServiceInterface - admin batch ingestion
type ServiceInterface interface {
	// InsertAlbums ingest mỗi album trong một transaction riêng, chạy song song trên pool.
	// Kết quả luôn chứa outcome của từng album; error != nil khi có ít nhất một album fail
	// (wrap ErrBatchPartialFailure + lỗi đầu tiên theo thứ tự submit).
	InsertAlbums(ctx context.Context, infos []model.BatchAlbumInfo) (*model.BatchResult, error)
}

type adminService struct {
	pool    *workerpool.Pool
	tx      database.Transactor
	artists artistService.ServiceInterface
	songs   songRepo.RepositoryInterface
}

// NewAdminService - pool do container sở hữu (start/shutdown theo process)
func NewAdminService(
	pool *workerpool.Pool,
	tx database.Transactor,
	artists artistService.ServiceInterface,
	songs songRepo.RepositoryInterface,
) ServiceInterface {
	return &adminService{
		pool:    pool,
		tx:      tx,
		artists: artists,
		songs:   songs,
	}
}

func (s *adminService) InsertAlbums(ctx context.Context, infos []model.BatchAlbumInfo) (*model.BatchResult, error) {
	if len(infos) == 0 {
		return nil, model.ErrEmptyBatch
	}

	// Submit theo thứ tự; record invalid không được submit, fail ngay
	futures := make([]*workerpool.Future[uuid.UUID], len(infos))
	for i := range infos {
		info := infos[i]
		if err := info.Validate(); err != nil {
			futures[i] = workerpool.Resolved(uuid.Nil, fmt.Errorf("invalid album: %w", err))
			continue
		}
		futures[i] = workerpool.Submit(ctx, s.pool, func(ctx context.Context) (uuid.UUID, error) {
			return s.insertAlbum(ctx, info)
		})
	}

	// Join theo thứ tự submit, không cancel các item khác khi một item fail
	result := &model.BatchResult{
		Total: len(infos),
		Items: make([]model.BatchItemResult, len(infos)),
	}
	var firstErr error

	for i, f := range futures {
		albumID, err := f.Get()
		item := model.BatchItemResult{Index: i, Title: infos[i].Title}

		if err != nil {
			item.Error = err.Error()
			result.Failed++
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: album #%d %q: %w", model.ErrBatchPartialFailure, i, infos[i].Title, err)
			}
			log.Warn().Err(err).Int("index", i).Str("title", infos[i].Title).Msg("[BATCH] Album ingestion failed")
		} else {
			id := albumID
			item.AlbumID = &id
			result.Succeeded++
		}
		result.Items[i] = item
	}

	log.Info().
		Int("total", result.Total).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("[BATCH] Album ingestion finished")

	return result, firstErr
}

// insertAlbum: artist → album → songs → song artists, tất cả trong một tx
func (s *adminService) insertAlbum(ctx context.Context, info model.BatchAlbumInfo) (uuid.UUID, error) {
	return database.WithTransactionResult(ctx, s.tx, func(tx pgx.Tx) (uuid.UUID, error) {
		artist, err := s.artists.GetOrCreate(ctx, tx, info.Artist)
		if err != nil {
			return uuid.Nil, err
		}

		album := &songModel.Album{
			ID:       uuid.New(),
			Title:    info.Title,
			Image:    info.Image,
			ArtistID: artist.ID,
		}
		if err := s.songs.CreateAlbumWithTx(ctx, tx, album); err != nil {
			return uuid.Nil, err
		}

		for _, si := range info.Songs {
			song := &songModel.Song{
				ID:       uuid.New(),
				Title:    si.Title,
				Duration: si.Duration,
				AlbumID:  album.ID,
			}
			if err := s.songs.CreateSongWithTx(ctx, tx, song); err != nil {
				return uuid.Nil, err
			}

			for _, name := range si.Artists {
				a, err := s.artists.GetOrCreate(ctx, tx, name)
				if err != nil {
					return uuid.Nil, err
				}
				if err := s.songs.LinkArtistWithTx(ctx, tx, songModel.SongArtist{SongID: song.ID, ArtistID: a.ID}); err != nil {
					return uuid.Nil, err
				}
			}
		}

		return album.ID, nil
	})
}
