package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-backend/internal/domains/artist/model"
	"playlist-backend/internal/shared/testutil/memdb"
	"playlist-backend/internal/shared/testutil/memrepo"
)

func getOrCreate(t *testing.T, db *memdb.DB, svc ServiceInterface, name string) (*model.Artist, error) {
	t.Helper()
	var artist *model.Artist
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		var err error
		artist, err = svc.GetOrCreate(context.Background(), tx, name)
		return err
	})
	return artist, err
}

func TestGetOrCreate_ConcurrentSameNameConverges(t *testing.T) {
	db := memdb.New()
	repo := memrepo.NewArtistRepo(db)
	svc := NewArtistService(repo)

	const workers = 4
	ids := make([]uuid.UUID, workers)
	errs := make([]error, workers)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			a, err := getOrCreate(t, db, svc, "Radiohead")
			errs[i] = err
			if a != nil {
				ids[i] = a.ID
			}
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, repo.Count())
}

func TestGetOrCreate_NormalizesName(t *testing.T) {
	db := memdb.New()
	repo := memrepo.NewArtistRepo(db)
	svc := NewArtistService(repo)

	first, err := getOrCreate(t, db, svc, "  Daft   Punk ")
	require.NoError(t, err)
	assert.Equal(t, "Daft Punk", first.Name)

	second, err := getOrCreate(t, db, svc, "Daft Punk")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.Count())
}

func TestGetOrCreate_SameTransactionReusesPendingRow(t *testing.T) {
	db := memdb.New()
	repo := memrepo.NewArtistRepo(db)
	svc := NewArtistService(repo)

	var a, b *model.Artist
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		var err error
		if a, err = svc.GetOrCreate(context.Background(), tx, "Björk"); err != nil {
			return err
		}
		b, err = svc.GetOrCreate(context.Background(), tx, "Björk")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, 1, repo.Count())
}

func TestGetOrCreate_BlankName(t *testing.T) {
	svc := NewArtistService(memrepo.NewArtistRepo(memdb.New()))

	_, err := svc.GetOrCreate(context.Background(), nil, "   ")
	assert.ErrorIs(t, err, model.ErrInvalidName)
}

// stubRepo trả về kết quả theo kịch bản cố định
type stubRepo struct {
	finds     []error
	createErr error
	findCalls int
}

func (s *stubRepo) FindByNameWithTx(ctx context.Context, tx pgx.Tx, name string) (*model.Artist, error) {
	err := s.finds[s.findCalls]
	s.findCalls++
	if err != nil {
		return nil, err
	}
	return &model.Artist{ID: uuid.New(), Name: name}, nil
}

func (s *stubRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, artist *model.Artist) error {
	return s.createErr
}

func TestGetOrCreate_VanishedAfterDuplicate(t *testing.T) {
	repo := &stubRepo{
		finds:     []error{model.ErrArtistNotFound, model.ErrArtistNotFound},
		createErr: model.ErrDuplicateName,
	}
	svc := NewArtistService(repo)

	_, err := svc.GetOrCreate(context.Background(), nil, "Ghost")
	assert.ErrorIs(t, err, model.ErrArtistVanished)
	assert.Equal(t, 2, repo.findCalls)
}

func TestGetOrCreate_LostRaceReturnsWinner(t *testing.T) {
	repo := &stubRepo{
		finds:     []error{model.ErrArtistNotFound, nil},
		createErr: model.ErrDuplicateName,
	}
	svc := NewArtistService(repo)

	a, err := svc.GetOrCreate(context.Background(), nil, "Winner")
	require.NoError(t, err)
	assert.Equal(t, "Winner", a.Name)
}

func TestGetOrCreate_PropagatesInsertFailure(t *testing.T) {
	boom := errors.New("disk full")
	repo := &stubRepo{
		finds:     []error{model.ErrArtistNotFound},
		createErr: boom,
	}
	svc := NewArtistService(repo)

	_, err := svc.GetOrCreate(context.Background(), nil, "Anyone")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, model.ErrArtistVanished)
}
