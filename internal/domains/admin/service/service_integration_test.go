//go:build integration

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-backend/internal/domains/admin/model"
	artistRepo "playlist-backend/internal/domains/artist/repository"
	artistService "playlist-backend/internal/domains/artist/service"
	songRepo "playlist-backend/internal/domains/song/repository"
	"playlist-backend/internal/shared/testutil/pgtest"
	"playlist-backend/pkg/database"
	"playlist-backend/pkg/workerpool"
)

func TestIntegration_InsertAlbums_SharedArtistsConverge(t *testing.T) {
	pool := pgtest.NewPool(t)
	ctx := context.Background()

	workers, err := workerpool.New(workerpool.Config{Name: "it-batch", Size: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = workers.Shutdown(context.Background()) })

	svc := NewAdminService(
		workers,
		database.NewTransactor(pool),
		artistService.NewArtistService(artistRepo.NewPostgresRepository()),
		songRepo.NewPostgresRepository(pool),
	)

	// mọi album cùng album artist → các tx tranh nhau insert "Radiohead"
	infos := make([]model.BatchAlbumInfo, 8)
	for i := range infos {
		infos[i] = album(string(rune('A'+i)), "Radiohead", "Radiohead", "Jonny Greenwood")
	}

	result, err := svc.InsertAlbums(ctx, infos)
	require.NoError(t, err)
	assert.Equal(t, 8, result.Succeeded)

	var artists, albums, songs, links int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM artists`).Scan(&artists))
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM albums`).Scan(&albums))
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM songs`).Scan(&songs))
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM song_artists`).Scan(&links))

	assert.Equal(t, 2, artists)
	assert.Equal(t, 8, albums)
	assert.Equal(t, 16, songs)
	assert.Equal(t, 32, links)
}
