// Package memrepo chứa các repository in-memory chạy trên memdb, dùng cho service tests.
package memrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	artistModel "playlist-backend/internal/domains/artist/model"
	artistRepo "playlist-backend/internal/domains/artist/repository"
	songModel "playlist-backend/internal/domains/song/model"
	songRepo "playlist-backend/internal/domains/song/repository"
	"playlist-backend/internal/shared/testutil/memdb"
)

// ========================================
// ARTISTS
// ========================================

// ArtistRepo giả lập unique index trên artists.name: insert trùng tên với một
// tx chưa commit sẽ block đến khi tx đó kết thúc.
type ArtistRepo struct {
	db     *memdb.DB
	byName map[string]*artistModel.Artist
}

var _ artistRepo.RepositoryInterface = (*ArtistRepo)(nil)

func NewArtistRepo(db *memdb.DB) *ArtistRepo {
	return &ArtistRepo{db: db, byName: make(map[string]*artistModel.Artist)}
}

func pendingArtists(tx *memdb.Tx) map[string]*artistModel.Artist {
	return tx.Local("artists", func() any { return make(map[string]*artistModel.Artist) }).(map[string]*artistModel.Artist)
}

func (r *ArtistRepo) committed(name string) *artistModel.Artist {
	var a *artistModel.Artist
	r.db.Read(func() {
		if v, ok := r.byName[name]; ok {
			cp := *v
			a = &cp
		}
	})
	return a
}

func (r *ArtistRepo) FindByNameWithTx(ctx context.Context, tx pgx.Tx, name string) (*artistModel.Artist, error) {
	if a, ok := pendingArtists(memdb.From(tx))[name]; ok {
		cp := *a
		return &cp, nil
	}
	if a := r.committed(name); a != nil {
		return a, nil
	}
	return nil, artistModel.ErrArtistNotFound
}

func (r *ArtistRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, artist *artistModel.Artist) error {
	mtx := memdb.From(tx)
	if _, ok := pendingArtists(mtx)[artist.Name]; ok {
		return fmt.Errorf("%w: %s", artistModel.ErrDuplicateName, artist.Name)
	}

	if err := mtx.Lock("artists:name:" + artist.Name); err != nil {
		return err
	}
	if r.committed(artist.Name) != nil {
		return fmt.Errorf("%w: %s", artistModel.ErrDuplicateName, artist.Name)
	}

	artist.CreatedAt = time.Now()
	row := *artist
	pendingArtists(mtx)[artist.Name] = &row
	mtx.Stage(nil, func() {
		r.byName[row.Name] = &row
	})
	return nil
}

// Count số artist đã commit
func (r *ArtistRepo) Count() int {
	var n int
	r.db.Read(func() { n = len(r.byName) })
	return n
}

// ========================================
// SONGS / ALBUMS
// ========================================

// SongRepo - catalog in-memory. FailAlbum (nếu set) được gọi trong
// CreateAlbumWithTx, trả error để làm fail album đó.
type SongRepo struct {
	db     *memdb.DB
	albums map[uuid.UUID]*songModel.Album
	songs  map[uuid.UUID]*songModel.Song
	links  map[songModel.SongArtist]struct{}

	FailAlbum func(album *songModel.Album) error
}

var _ songRepo.RepositoryInterface = (*SongRepo)(nil)

func NewSongRepo(db *memdb.DB) *SongRepo {
	return &SongRepo{
		db:     db,
		albums: make(map[uuid.UUID]*songModel.Album),
		songs:  make(map[uuid.UUID]*songModel.Song),
		links:  make(map[songModel.SongArtist]struct{}),
	}
}

// Seed thêm song đã commit
func (r *SongRepo) Seed(song *songModel.Song) {
	r.db.Read(func() {
		cp := *song
		r.songs[song.ID] = &cp
	})
}

func (r *SongRepo) ExistsWithTx(ctx context.Context, tx pgx.Tx, songID uuid.UUID) (bool, error) {
	var ok bool
	r.db.Read(func() { _, ok = r.songs[songID] })
	return ok, nil
}

func (r *SongRepo) FindByID(ctx context.Context, songID uuid.UUID) (*songModel.Song, error) {
	var s *songModel.Song
	r.db.Read(func() {
		if v, ok := r.songs[songID]; ok {
			cp := *v
			s = &cp
		}
	})
	if s == nil {
		return nil, songModel.ErrSongNotFound
	}
	return s, nil
}

func (r *SongRepo) CreateAlbumWithTx(ctx context.Context, tx pgx.Tx, album *songModel.Album) error {
	if r.FailAlbum != nil {
		if err := r.FailAlbum(album); err != nil {
			return err
		}
	}
	album.CreatedAt = time.Now()
	row := *album
	memdb.From(tx).Stage(nil, func() { r.albums[row.ID] = &row })
	return nil
}

func (r *SongRepo) CreateSongWithTx(ctx context.Context, tx pgx.Tx, song *songModel.Song) error {
	song.CreatedAt = time.Now()
	row := *song
	memdb.From(tx).Stage(nil, func() { r.songs[row.ID] = &row })
	return nil
}

func (r *SongRepo) LinkArtistWithTx(ctx context.Context, tx pgx.Tx, link songModel.SongArtist) error {
	memdb.From(tx).Stage(nil, func() { r.links[link] = struct{}{} })
	return nil
}

// Albums trả về các album đã commit
func (r *SongRepo) Albums() []songModel.Album {
	var out []songModel.Album
	r.db.Read(func() {
		for _, a := range r.albums {
			out = append(out, *a)
		}
	})
	return out
}

// SongsOfAlbum đếm songs đã commit của album
func (r *SongRepo) SongsOfAlbum(albumID uuid.UUID) int {
	var n int
	r.db.Read(func() {
		for _, s := range r.songs {
			if s.AlbumID == albumID {
				n++
			}
		}
	})
	return n
}

// LinkCount số song_artists đã commit
func (r *SongRepo) LinkCount() int {
	var n int
	r.db.Read(func() { n = len(r.links) })
	return n
}

func (r *SongRepo) song(id uuid.UUID) (songModel.Song, bool) {
	s, ok := r.songs[id]
	if !ok {
		return songModel.Song{}, false
	}
	return *s, true
}
