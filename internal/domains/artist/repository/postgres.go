package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"playlist-backend/internal/domains/artist/model"
	"playlist-backend/pkg/database"
)

// RepositoryInterface - data access cho artists
type RepositoryInterface interface {
	// FindByNameWithTx trả về ErrArtistNotFound nếu không có
	FindByNameWithTx(ctx context.Context, tx pgx.Tx, name string) (*model.Artist, error)
	// CreateWithTx trả về ErrDuplicateName khi vi phạm unique index; tx vẫn dùng tiếp được
	CreateWithTx(ctx context.Context, tx pgx.Tx, artist *model.Artist) error
}

type postgresRepository struct{}

// NewPostgresRepository tạo artist repository
func NewPostgresRepository() RepositoryInterface {
	return &postgresRepository{}
}

func (r *postgresRepository) FindByNameWithTx(ctx context.Context, tx pgx.Tx, name string) (*model.Artist, error) {
	var a model.Artist
	err := tx.QueryRow(ctx,
		`SELECT id, name, created_at FROM artists WHERE name = $1`, name,
	).Scan(&a.ID, &a.Name, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find artist: %w", database.Classify(err))
	}
	return &a, nil
}

// CreateWithTx insert trong SAVEPOINT: PostgreSQL abort cả transaction khi
// gặp unique violation, rollback về savepoint giữ cho tx ngoài còn sống để re-query.
func (r *postgresRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, artist *model.Artist) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create savepoint: %w", database.Classify(err))
	}

	err = sp.QueryRow(ctx,
		`INSERT INTO artists (id, name) VALUES ($1, $2) RETURNING created_at`,
		artist.ID, artist.Name,
	).Scan(&artist.CreatedAt)
	if err != nil {
		_ = sp.Rollback(ctx)
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", model.ErrDuplicateName, artist.Name)
		}
		return fmt.Errorf("failed to create artist: %w", database.Classify(err))
	}

	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", database.Classify(err))
	}
	return nil
}
