package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"playlist-backend/internal/domains/song/model"
	"playlist-backend/pkg/database"
)

// RepositoryInterface defines catalog write/lookup operations used by ingestion and playlists
type RepositoryInterface interface {
	ExistsWithTx(ctx context.Context, tx pgx.Tx, songID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, songID uuid.UUID) (*model.Song, error)
	CreateAlbumWithTx(ctx context.Context, tx pgx.Tx, album *model.Album) error
	CreateSongWithTx(ctx context.Context, tx pgx.Tx, song *model.Song) error
	LinkArtistWithTx(ctx context.Context, tx pgx.Tx, link model.SongArtist) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository tạo song repository
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) ExistsWithTx(ctx context.Context, tx pgx.Tx, songID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM songs WHERE id = $1)`, songID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check song: %w", database.Classify(err))
	}
	return exists, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, songID uuid.UUID) (*model.Song, error) {
	var s model.Song
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, duration, album_id, created_at FROM songs WHERE id = $1`, songID,
	).Scan(&s.ID, &s.Title, &s.Duration, &s.AlbumID, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) CreateAlbumWithTx(ctx context.Context, tx pgx.Tx, album *model.Album) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO albums (id, title, image, artist_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, album.ID, album.Title, album.Image, album.ArtistID).Scan(&album.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create album: %w", database.Classify(err))
	}
	return nil
}

func (r *postgresRepository) CreateSongWithTx(ctx context.Context, tx pgx.Tx, song *model.Song) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO songs (id, title, duration, album_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, song.ID, song.Title, song.Duration, song.AlbumID).Scan(&song.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create song: %w", database.Classify(err))
	}
	return nil
}

// LinkArtistWithTx bỏ qua link trùng (một artist được liệt kê 2 lần cho cùng song)
func (r *postgresRepository) LinkArtistWithTx(ctx context.Context, tx pgx.Tx, link model.SongArtist) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO song_artists (song_id, artist_id)
		VALUES ($1, $2)
		ON CONFLICT (song_id, artist_id) DO NOTHING
	`, link.SongID, link.ArtistID)
	if err != nil {
		return fmt.Errorf("failed to link song artist: %w", database.Classify(err))
	}
	return nil
}
