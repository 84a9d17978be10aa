package domain

import (
	"context"
)

// AnimeRepo is the local store of cached anime, keyed by ID.
// Upserts replace the whole record (last write wins).
type AnimeRepo interface {
	Upsert(ctx context.Context, anime Anime) error
	UpsertAll(ctx context.Context, anime []Anime) error
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) error
	FindByID(ctx context.Context, id int) (*Anime, error)
	FindByAniListID(ctx context.Context, aniListID int) (*Anime, error)
	FindByYear(ctx context.Context, year int) (*Anime, error)
	Search(ctx context.Context, criteria *FilterCriteria) ([]Anime, error)
	List(ctx context.Context) ([]Anime, error)
	Random(ctx context.Context, count int, nsfw bool) ([]Anime, error)
	Count(ctx context.Context) (int, error)
}

// ProfileRepo caches GitHub profiles by login
type ProfileRepo interface {
	Upsert(ctx context.Context, profile Profile) error
	Find(ctx context.Context, login string) (*Profile, error)
}

// AnimeClient is the remote anime catalog
type AnimeClient interface {
	ListAnime(ctx context.Context, criteria *FilterCriteria, page int) (*AnimePage, error)
	GetAnime(ctx context.Context, id int) (*Anime, error)
	RandomAnime(ctx context.Context, count int, nsfw bool) ([]Anime, error)
}

// ProfileClient loads GitHub profiles
type ProfileClient interface {
	Profile(ctx context.Context, login string) (*Profile, error)
}

// Connectivity dispatches to exactly one of two paths depending on reachability
type Connectivity interface {
	RunGated(ctx context.Context, onOnline, onOffline func())
}
