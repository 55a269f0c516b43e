//go:build integration

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-backend/internal/domains/customplaylist/repository"
	songRepo "playlist-backend/internal/domains/song/repository"
	"playlist-backend/internal/shared/testutil/pgtest"
	"playlist-backend/pkg/database"
)

func seedCatalog(t *testing.T, pool *pgxpool.Pool, n int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()

	artistID, albumID := uuid.New(), uuid.New()
	_, err := pool.Exec(ctx, `INSERT INTO artists (id, name) VALUES ($1, $2)`, artistID, "Seed "+artistID.String())
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO albums (id, title, artist_id) VALUES ($1, 'Seed', $2)`, albumID, artistID)
	require.NoError(t, err)

	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
		_, err := pool.Exec(ctx, `INSERT INTO songs (id, title, duration, album_id) VALUES ($1, 'track', 180, $2)`, ids[i], albumID)
		require.NoError(t, err)
	}
	return ids
}

func TestIntegration_AddSong_ConcurrentKeepsCountConsistent(t *testing.T) {
	pool := pgtest.NewPool(t)
	ctx := context.Background()

	svc := NewCustomPlaylistService(
		repository.NewPostgresRepository(pool),
		songRepo.NewPostgresRepository(pool),
		database.NewTransactor(pool),
		database.RetryPolicy{MaxAttempts: 20, Backoff: 5 * time.Millisecond},
	)

	userID := uuid.New()
	created, err := svc.Create(ctx, userID)
	require.NoError(t, err)

	const n = 8
	songs := seedCatalog(t, pool, n)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AddSong(ctx, userID, created.ID, songs[i])
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var songCnt, version, children int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT song_cnt, version FROM custom_playlists WHERE id = $1`, created.ID,
	).Scan(&songCnt, &version))
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM custom_playlist_songs WHERE custom_playlist_id = $1`, created.ID,
	).Scan(&children))

	assert.Equal(t, n, songCnt)
	assert.Equal(t, n, children)
	assert.Equal(t, n, version)

	detail, err := svc.Get(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Songs, n)
}

func TestIntegration_UpdateWithVersion_StaleVersionConflicts(t *testing.T) {
	pool := pgtest.NewPool(t)
	ctx := context.Background()
	repo := repository.NewPostgresRepository(pool)
	tx := database.NewTransactor(pool)

	userID := uuid.New()
	svc := NewCustomPlaylistService(repo, songRepo.NewPostgresRepository(pool), tx, database.DefaultRetryPolicy())
	created, err := svc.Create(ctx, userID)
	require.NoError(t, err)

	_, err = svc.Patch(ctx, userID, created.ID, "renamed")
	require.NoError(t, err)

	// version hiện tại là 1, update với expected 0 phải conflict
	err = tx.WithTransaction(ctx, func(dbtx pgx.Tx) error {
		p, err := repo.FindByIDAndUserIDWithTx(ctx, dbtx, created.ID, userID)
		if err != nil {
			return err
		}
		return repo.UpdateWithVersion(ctx, dbtx, p, 0)
	})
	assert.ErrorIs(t, err, database.ErrVersionConflict)
}
