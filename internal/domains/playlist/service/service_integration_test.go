//go:build integration

package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-backend/internal/domains/playlist/model"
	"playlist-backend/internal/domains/playlist/repository"
	"playlist-backend/internal/shared/testutil/pgtest"
	"playlist-backend/pkg/database"
)

func TestIntegration_RecordView_ConcurrentSamePairCountsOnce(t *testing.T) {
	pool := pgtest.NewPool(t)
	ctx := context.Background()

	playlistID := uuid.New()
	_, err := pool.Exec(ctx, `INSERT INTO playlists (id, title) VALUES ($1, 'Daily Mix')`, playlistID)
	require.NoError(t, err)

	svc := NewPlaylistService(repository.NewPostgresRepository(pool, 0), database.NewTransactor(pool))
	userID := uuid.New()

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.RecordView(ctx, playlistID, userID)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var views int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM playlist_views WHERE playlist_id = $1 AND user_id = $2`, playlistID, userID,
	).Scan(&views))
	assert.Equal(t, 1, views)

	p, err := svc.Get(ctx, playlistID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, p.ViewCnt)
}

func TestIntegration_RecordView_UnknownPlaylist(t *testing.T) {
	pool := pgtest.NewPool(t)
	svc := NewPlaylistService(repository.NewPostgresRepository(pool, 0), database.NewTransactor(pool))

	err := svc.RecordView(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, model.ErrPlaylistNotFound)
}
