package memrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	cpModel "playlist-backend/internal/domains/customplaylist/model"
	cpRepo "playlist-backend/internal/domains/customplaylist/repository"
	playlistModel "playlist-backend/internal/domains/playlist/model"
	playlistRepo "playlist-backend/internal/domains/playlist/repository"
	songModel "playlist-backend/internal/domains/song/model"
	"playlist-backend/internal/shared/testutil/memdb"
	"playlist-backend/pkg/database"
)

// ========================================
// CUSTOM PLAYLISTS
// ========================================

// CustomPlaylistRepo kiểm tra expected version lúc commit.
// BeforeUpdate (nếu set) chạy trong UpdateWithVersion, trước khi write được stage.
type CustomPlaylistRepo struct {
	db        *memdb.DB
	songs     *SongRepo
	playlists map[uuid.UUID]*cpModel.CustomPlaylist
	order     []uuid.UUID
	items     map[uuid.UUID][]cpModel.CustomPlaylistSong

	BeforeUpdate func(p *cpModel.CustomPlaylist)
}

var _ cpRepo.RepositoryInterface = (*CustomPlaylistRepo)(nil)

func NewCustomPlaylistRepo(db *memdb.DB, songs *SongRepo) *CustomPlaylistRepo {
	return &CustomPlaylistRepo{
		db:        db,
		songs:     songs,
		playlists: make(map[uuid.UUID]*cpModel.CustomPlaylist),
		items:     make(map[uuid.UUID][]cpModel.CustomPlaylistSong),
	}
}

// Put ghi thẳng committed state (dùng để seed version / song_cnt)
func (r *CustomPlaylistRepo) Put(p *cpModel.CustomPlaylist) {
	r.db.Read(func() {
		if _, ok := r.playlists[p.ID]; !ok {
			r.order = append(r.order, p.ID)
		}
		cp := *p
		r.playlists[p.ID] = &cp
	})
}

// Snapshot trả về committed row và số child rows
func (r *CustomPlaylistRepo) Snapshot(id uuid.UUID) (cpModel.CustomPlaylist, int) {
	var p cpModel.CustomPlaylist
	var n int
	r.db.Read(func() {
		if v, ok := r.playlists[id]; ok {
			p = *v
		}
		n = len(r.items[id])
	})
	return p, n
}

func (r *CustomPlaylistRepo) Create(ctx context.Context, playlist *cpModel.CustomPlaylist) error {
	now := time.Now()
	playlist.SongCnt = 0
	playlist.Version = 0
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	r.Put(playlist)
	return nil
}

func (r *CustomPlaylistRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*cpModel.CustomPlaylist, error) {
	var out []*cpModel.CustomPlaylist
	r.db.Read(func() {
		for _, id := range r.order {
			if p := r.playlists[id]; p.UserID == userID {
				cp := *p
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

func (r *CustomPlaylistRepo) ListSongs(ctx context.Context, playlistID uuid.UUID) ([]songModel.Song, error) {
	out := []songModel.Song{}
	r.db.Read(func() {
		for _, item := range r.items[playlistID] {
			if s, ok := r.songs.song(item.SongID); ok {
				out = append(out, s)
			}
		}
	})
	return out, nil
}

func (r *CustomPlaylistRepo) FindByIDAndUserIDWithTx(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) (*cpModel.CustomPlaylist, error) {
	var p *cpModel.CustomPlaylist
	r.db.Read(func() {
		if v, ok := r.playlists[id]; ok && v.UserID == userID {
			cp := *v
			p = &cp
		}
	})
	if p == nil {
		return nil, cpModel.ErrCustomPlaylistNotFound
	}
	return p, nil
}

func (r *CustomPlaylistRepo) AddSongWithTx(ctx context.Context, tx pgx.Tx, item *cpModel.CustomPlaylistSong) error {
	item.CreatedAt = time.Now()
	row := *item
	memdb.From(tx).Stage(nil, func() {
		r.items[row.CustomPlaylistID] = append(r.items[row.CustomPlaylistID], row)
	})
	return nil
}

func (r *CustomPlaylistRepo) UpdateWithVersion(ctx context.Context, tx pgx.Tx, playlist *cpModel.CustomPlaylist, expectedVersion int) error {
	if r.BeforeUpdate != nil {
		r.BeforeUpdate(playlist)
	}

	id, userID := playlist.ID, playlist.UserID
	title, songCnt := playlist.Title, playlist.SongCnt

	memdb.From(tx).Stage(
		func() error {
			p, ok := r.playlists[id]
			if !ok || p.UserID != userID || p.Version != expectedVersion {
				return database.ErrVersionConflict
			}
			return nil
		},
		func() {
			p := r.playlists[id]
			p.Title = title
			p.SongCnt = songCnt
			p.Version = expectedVersion + 1
			p.UpdatedAt = time.Now()
		},
	)
	return nil
}

// ========================================
// PLAYLISTS / VIEWS
// ========================================

// PlaylistRepo - LockViews giữ lock theo (playlist, user) đến hết tx.
// OnLocked (nếu set) chạy ngay sau khi lấy được lock.
type PlaylistRepo struct {
	db        *memdb.DB
	playlists map[uuid.UUID]*playlistModel.Playlist
	views     []playlistModel.PlaylistView

	OnLocked func()
}

var _ playlistRepo.RepositoryInterface = (*PlaylistRepo)(nil)

func NewPlaylistRepo(db *memdb.DB) *PlaylistRepo {
	return &PlaylistRepo{db: db, playlists: make(map[uuid.UUID]*playlistModel.Playlist)}
}

// Put seed playlist
func (r *PlaylistRepo) Put(p *playlistModel.Playlist) {
	r.db.Read(func() {
		cp := *p
		r.playlists[p.ID] = &cp
	})
}

// Views đếm view rows đã commit của cặp (playlist, user)
func (r *PlaylistRepo) Views(playlistID, userID uuid.UUID) int {
	var n int
	r.db.Read(func() {
		for _, v := range r.views {
			if v.PlaylistID == playlistID && v.UserID == userID {
				n++
			}
		}
	})
	return n
}

func (r *PlaylistRepo) FindByID(ctx context.Context, id uuid.UUID) (*playlistModel.Playlist, error) {
	var p *playlistModel.Playlist
	r.db.Read(func() {
		if v, ok := r.playlists[id]; ok {
			cp := *v
			p = &cp
		}
	})
	if p == nil {
		return nil, playlistModel.ErrPlaylistNotFound
	}
	return p, nil
}

func (r *PlaylistRepo) LockViews(ctx context.Context, tx pgx.Tx, playlistID, userID uuid.UUID) ([]*playlistModel.PlaylistView, error) {
	if err := memdb.From(tx).Lock("playlist_views:" + playlistID.String() + ":" + userID.String()); err != nil {
		return nil, err
	}
	if r.OnLocked != nil {
		r.OnLocked()
	}

	var out []*playlistModel.PlaylistView
	r.db.Read(func() {
		for _, v := range r.views {
			if v.PlaylistID == playlistID && v.UserID == userID {
				cp := v
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

func (r *PlaylistRepo) exists(id uuid.UUID) bool {
	var ok bool
	r.db.Read(func() { _, ok = r.playlists[id] })
	return ok
}

func (r *PlaylistRepo) CreateViewWithTx(ctx context.Context, tx pgx.Tx, view *playlistModel.PlaylistView) error {
	if !r.exists(view.PlaylistID) {
		return playlistModel.ErrPlaylistNotFound
	}
	view.CreatedAt = time.Now()
	row := *view
	memdb.From(tx).Stage(nil, func() { r.views = append(r.views, row) })
	return nil
}

func (r *PlaylistRepo) IncrementViewCount(ctx context.Context, tx pgx.Tx, playlistID uuid.UUID) error {
	if !r.exists(playlistID) {
		return playlistModel.ErrPlaylistNotFound
	}
	memdb.From(tx).Stage(nil, func() { r.playlists[playlistID].ViewCnt++ })
	return nil
}
