package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"playlist-backend/internal/domains/artist/model"
	"playlist-backend/internal/domains/artist/repository"
	"playlist-backend/internal/shared/utils"
)

// ServiceInterface - idempotent get-or-create cho artists
type ServiceInterface interface {
	// GetOrCreate chạy trong tx của caller. An toàn với nhiều caller đồng thời cùng name:
	// tất cả hội tụ về đúng một row.
	GetOrCreate(ctx context.Context, tx pgx.Tx, name string) (*model.Artist, error)
}

type artistService struct {
	repo repository.RepositoryInterface
}

// NewArtistService tạo artist service
func NewArtistService(repo repository.RepositoryInterface) ServiceInterface {
	return &artistService{repo: repo}
}

func (s *artistService) GetOrCreate(ctx context.Context, tx pgx.Tx, name string) (*model.Artist, error) {
	name = utils.NormalizeName(name)
	if name == "" {
		return nil, model.ErrInvalidName
	}

	// 1. Lookup
	existing, err := s.repo.FindByNameWithTx(ctx, tx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrArtistNotFound) {
		return nil, err
	}

	// 2. Race the insert
	artist := &model.Artist{ID: uuid.New(), Name: name}
	err = s.repo.CreateWithTx(ctx, tx, artist)
	if err == nil {
		log.Debug().Str("artist_id", artist.ID.String()).Str("name", name).Msg("Created new artist")
		return artist, nil
	}
	if !errors.Is(err, model.ErrDuplicateName) {
		return nil, err
	}

	// 3. Lost the race → reconcile với row của winner
	log.Debug().Str("name", name).Msg("Artist insert lost unique race, re-querying")

	winner, err := s.repo.FindByNameWithTx(ctx, tx, name)
	if errors.Is(err, model.ErrArtistNotFound) {
		return nil, fmt.Errorf("%w: %s", model.ErrArtistVanished, name)
	}
	if err != nil {
		return nil, err
	}
	return winner, nil
}
