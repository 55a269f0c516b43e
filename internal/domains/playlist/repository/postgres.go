package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"playlist-backend/internal/domains/playlist/model"
	"playlist-backend/pkg/database"
)

type postgresRepository struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewPostgresRepository tạo playlist repository.
// lockTimeout = 0 → chờ lock vô hạn (chỉ dựa vào deadlock detection của PostgreSQL).
func NewPostgresRepository(pool *pgxpool.Pool, lockTimeout time.Duration) RepositoryInterface {
	return &postgresRepository{pool: pool, lockTimeout: lockTimeout}
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	var p model.Playlist
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, view_cnt, created_at FROM playlists WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.ViewCnt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return &p, nil
}

// LockViews:
//  1. (optional) SET LOCAL lock_timeout
//  2. pg_advisory_xact_lock trên hash của key: FOR UPDATE không khóa được gì khi
//     chưa có row nào, advisory lock đảm bảo lần view đầu tiên cũng được serialize
//  3. SELECT ... FOR UPDATE các rows hiện có của key
func (r *postgresRepository) LockViews(ctx context.Context, tx pgx.Tx, playlistID, userID uuid.UUID) ([]*model.PlaylistView, error) {
	if r.lockTimeout > 0 {
		if _, err := tx.Exec(ctx,
			`SELECT set_config('lock_timeout', $1, true)`,
			fmt.Sprintf("%dms", r.lockTimeout.Milliseconds()),
		); err != nil {
			return nil, fmt.Errorf("failed to set lock timeout: %w", database.Classify(err))
		}
	}

	key := "playlist_views:" + playlistID.String() + ":" + userID.String()
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return nil, fmt.Errorf("failed to acquire view lock: %w", database.Classify(err))
	}

	rows, err := tx.Query(ctx, `
		SELECT id, playlist_id, user_id, created_at
		FROM playlist_views
		WHERE playlist_id = $1 AND user_id = $2
		FOR UPDATE
	`, playlistID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock playlist views: %w", database.Classify(err))
	}
	defer rows.Close()

	var views []*model.PlaylistView
	for rows.Next() {
		var v model.PlaylistView
		if err := rows.Scan(&v.ID, &v.PlaylistID, &v.UserID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist view: %w", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to lock playlist views: %w", database.Classify(err))
	}
	return views, nil
}

func (r *postgresRepository) CreateViewWithTx(ctx context.Context, tx pgx.Tx, view *model.PlaylistView) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO playlist_views (id, playlist_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, view.ID, view.PlaylistID, view.UserID).Scan(&view.CreatedAt)
	if database.IsForeignKeyViolation(err) {
		return model.ErrPlaylistNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create playlist view: %w", database.Classify(err))
	}
	return nil
}

func (r *postgresRepository) IncrementViewCount(ctx context.Context, tx pgx.Tx, playlistID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `UPDATE playlists SET view_cnt = view_cnt + 1 WHERE id = $1`, playlistID)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", database.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPlaylistNotFound
	}
	return nil
}
