package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"playlist-backend/internal/domains/customplaylist/model"
	songModel "playlist-backend/internal/domains/song/model"
	"playlist-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository tạo custom playlist repository
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, playlist *model.CustomPlaylist) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO custom_playlists (id, user_id, title, song_cnt, version)
		VALUES ($1, $2, $3, 0, 0)
		RETURNING song_cnt, version, created_at, updated_at
	`, playlist.ID, playlist.UserID, playlist.Title,
	).Scan(&playlist.SongCnt, &playlist.Version, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create custom playlist: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.CustomPlaylist, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, song_cnt, version, created_at, updated_at
		FROM custom_playlists
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*model.CustomPlaylist
	for rows.Next() {
		var p model.CustomPlaylist
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.SongCnt, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan custom playlist: %w", err)
		}
		playlists = append(playlists, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate custom playlists: %w", err)
	}
	return playlists, nil
}

func (r *postgresRepository) ListSongs(ctx context.Context, playlistID uuid.UUID) ([]songModel.Song, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.title, s.duration, s.album_id, s.created_at
		FROM custom_playlist_songs cps
		JOIN songs s ON s.id = cps.song_id
		WHERE cps.custom_playlist_id = $1
		ORDER BY cps.created_at ASC, cps.id ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist songs: %w", err)
	}
	defer rows.Close()

	songs := []songModel.Song{}
	for rows.Next() {
		var s songModel.Song
		if err := rows.Scan(&s.ID, &s.Title, &s.Duration, &s.AlbumID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate songs: %w", err)
	}
	return songs, nil
}

func (r *postgresRepository) FindByIDAndUserIDWithTx(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) (*model.CustomPlaylist, error) {
	var p model.CustomPlaylist
	err := tx.QueryRow(ctx, `
		SELECT id, user_id, title, song_cnt, version, created_at, updated_at
		FROM custom_playlists
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&p.ID, &p.UserID, &p.Title, &p.SongCnt, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCustomPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get custom playlist: %w", database.Classify(err))
	}
	return &p, nil
}

func (r *postgresRepository) AddSongWithTx(ctx context.Context, tx pgx.Tx, item *model.CustomPlaylistSong) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO custom_playlist_songs (id, custom_playlist_id, song_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, item.ID, item.CustomPlaylistID, item.SongID).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add playlist song: %w", database.Classify(err))
	}
	return nil
}

// UpdateWithVersion - Update with optimistic locking.
// UPDATE concurrent trên cùng row sẽ block đến khi tx kia commit, sau đó
// WHERE version = $expected được evaluate lại trên row mới → 0 rows.
func (r *postgresRepository) UpdateWithVersion(ctx context.Context, tx pgx.Tx, playlist *model.CustomPlaylist, expectedVersion int) error {
	err := tx.QueryRow(ctx, `
		UPDATE custom_playlists
		SET title = $1, song_cnt = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND user_id = $4 AND version = $5
		RETURNING version, updated_at
	`, playlist.Title, playlist.SongCnt, playlist.ID, playlist.UserID, expectedVersion,
	).Scan(&playlist.Version, &playlist.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return database.ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update custom playlist: %w", database.Classify(err))
	}
	return nil
}
