package anime

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/database"
	"github.com/varoOP/aniview/internal/domain"
)

type fakeConn struct {
	online bool
	calls  int
}

func (c *fakeConn) RunGated(_ context.Context, onOnline, onOffline func()) {
	c.calls++
	if c.online {
		onOnline()
		return
	}
	onOffline()
}

type fakeClient struct {
	mu       sync.Mutex
	pages    map[int]*domain.AnimePage
	byID     map[int]domain.Anime
	random   []domain.Anime
	err      error
	calls    int
	criteria *domain.FilterCriteria
}

func (c *fakeClient) ListAnime(_ context.Context, criteria *domain.FilterCriteria, page int) (*domain.AnimePage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.criteria = criteria
	if c.err != nil {
		return nil, c.err
	}
	if p, ok := c.pages[page]; ok {
		return p, nil
	}
	return &domain.AnimePage{CurrentPage: page}, nil
}

func (c *fakeClient) GetAnime(_ context.Context, id int) (*domain.Anime, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	a, ok := c.byID[id]
	if !ok {
		return nil, &domain.RemoteError{StatusCode: 404, Message: "Anime not found"}
	}
	return &a, nil
}

func (c *fakeClient) RandomAnime(_ context.Context, count int, _ bool) ([]domain.Anime, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if len(c.random) > count {
		return c.random[:count], nil
	}
	return c.random, nil
}

func attackOnTitan() domain.Anime {
	return domain.Anime{
		ID:         16498,
		AniListID:  16498,
		Titles:     map[string]string{"en": "Attack on Titan"},
		Format:     domain.FormatTV,
		SeasonYear: 2013,
		Genres:     []string{"Action"},
	}
}

func newRepo(t *testing.T) *database.AnimeRepo {
	t.Helper()
	db, err := database.NewDB(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return database.NewAnimeRepo(zerolog.Nop(), db)
}

func record[T any](s Stream[domain.RequestState[T]]) (*[]domain.RequestState[T], func()) {
	var states []domain.RequestState[T]
	cancel := s.Observe(func(st domain.RequestState[T]) { states = append(states, st) })
	return &states, cancel
}

func assertSequence[T any](t *testing.T, states []domain.RequestState[T], terminal domain.StateKind) domain.RequestState[T] {
	t.Helper()
	if len(states) != 3 {
		t.Fatalf("Expected 3 states, got %d: %+v", len(states), states)
	}
	if states[0].Kind != domain.StateLoading || states[0].Phase != domain.LoadingShow {
		t.Fatalf("Expected Loading(show) first, got %+v", states[0])
	}
	if states[1].Kind != domain.StateLoading || states[1].Phase != domain.LoadingHide {
		t.Fatalf("Expected Loading(hide) second, got %+v", states[1])
	}
	if states[2].Kind != terminal {
		t.Fatalf("Expected terminal %s, got %+v", terminal, states[2])
	}
	id := states[0].RequestID
	if id == "" || states[1].RequestID != id || states[2].RequestID != id {
		t.Fatalf("Expected one request id across states, got %q %q %q", id, states[1].RequestID, states[2].RequestID)
	}
	return states[2]
}

func TestLoadAnime_OnlineWritesThrough(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	client := &fakeClient{byID: map[int]domain.Anime{16498: attackOnTitan()}}
	svc := NewService(zerolog.Nop(), client, repo, &fakeConn{online: true}, Options{WriteThrough: true})

	states, cancel := record(svc.Anime())
	defer cancel()

	svc.LoadAnime(ctx, 16498)

	final := assertSequence(t, *states, domain.StateSuccess)
	if final.Data == nil || final.Data.Title() != "Attack on Titan" {
		t.Fatalf("unexpected data: %+v", final.Data)
	}
	if final.Message != "" {
		t.Fatalf("Expected empty message, got %q", final.Message)
	}

	cached, err := repo.FindByID(ctx, 16498)
	if err != nil {
		t.Fatalf("Expected cached entry, got %v", err)
	}
	if cached.Title() != "Attack on Titan" {
		t.Fatalf("unexpected cached title %q", cached.Title())
	}
}

func TestLoadAnime_OfflineServesCache(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	if err := repo.Upsert(ctx, attackOnTitan()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client := &fakeClient{}
	svc := NewService(zerolog.Nop(), client, repo, &fakeConn{online: false}, Options{WriteThrough: true})

	states, cancel := record(svc.Anime())
	defer cancel()

	svc.LoadAnime(ctx, 16498)

	final := assertSequence(t, *states, domain.StateSuccess)
	if final.Message != domain.MessageOffline || !final.IsOffline() {
		t.Fatalf("Expected offline marker, got %q", final.Message)
	}
	if final.Data.ID != 16498 {
		t.Fatalf("unexpected data: %+v", final.Data)
	}
	if client.calls != 0 {
		t.Fatalf("Expected no network calls, got %d", client.calls)
	}
}

func TestLoadAnime_OfflineEmptyStore(t *testing.T) {
	svc := NewService(zerolog.Nop(), &fakeClient{}, newRepo(t), &fakeConn{online: false}, Options{})

	states, cancel := record(svc.Anime())
	defer cancel()

	svc.LoadAnime(context.Background(), 16498)

	final := assertSequence(t, *states, domain.StateError)
	if final.Message != domain.MessageNoConnection {
		t.Fatalf("unexpected message %q", final.Message)
	}
}

func TestLoadAnime_RemoteErrorMessage(t *testing.T) {
	svc := NewService(zerolog.Nop(), &fakeClient{}, newRepo(t), &fakeConn{online: true}, Options{})

	states, cancel := record(svc.Anime())
	defer cancel()

	svc.LoadAnime(context.Background(), 1)

	final := assertSequence(t, *states, domain.StateError)
	if final.Message != "Anime not found" {
		t.Fatalf("unexpected message %q", final.Message)
	}
}

func TestRoundTripPersistence(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	conn := &fakeConn{online: true}
	client := &fakeClient{byID: map[int]domain.Anime{16498: attackOnTitan()}}
	svc := NewService(zerolog.Nop(), client, repo, conn, Options{WriteThrough: true})

	svc.LoadAnime(ctx, 16498)

	conn.online = false
	svc.LoadAnime(ctx, 16498)

	final, ok := svc.Anime().Get()
	if !ok {
		t.Fatal("Expected a state")
	}
	if !final.IsOffline() || final.Data.ID != 16498 {
		t.Fatalf("Expected offline hit for 16498, got %+v", final)
	}
}

func TestWriteThroughDisabled(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	client := &fakeClient{byID: map[int]domain.Anime{16498: attackOnTitan()}}
	svc := NewService(zerolog.Nop(), client, repo, &fakeConn{online: true}, Options{WriteThrough: false})

	svc.LoadAnime(ctx, 16498)

	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatalf("Expected empty store, got %d", n)
	}
}

func TestLoadFilteredAnimeList_EmptyIsNA(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	if err := repo.Upsert(ctx, attackOnTitan()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client := &fakeClient{}
	svc := NewService(zerolog.Nop(), client, repo, &fakeConn{online: true}, Options{WriteThrough: true})

	states, cancel := record(svc.FilteredAnimeList())
	defer cancel()

	criteria := &domain.FilterCriteria{Title: "Code Geass"}
	svc.LoadFilteredAnimeList(ctx, criteria)

	final := assertSequence(t, *states, domain.StateError)
	if final.Message != domain.MessageNA {
		t.Fatalf("Expected NA, got %q", final.Message)
	}
	if final.DisplayMessage() != domain.MessageFallback {
		t.Fatalf("Expected fallback display text, got %q", final.DisplayMessage())
	}
	if client.criteria != criteria {
		t.Fatal("Expected criteria to be passed to the client")
	}

	list, _ := repo.List(ctx)
	if len(list) != 1 || list[0].ID != 16498 {
		t.Fatalf("Expected store unchanged, got %+v", list)
	}
}

func TestLoadAnimeList(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	aot := attackOnTitan()
	geass := domain.Anime{ID: 1575, Titles: map[string]string{"en": "Code Geass"}, SeasonYear: 2006}
	client := &fakeClient{pages: map[int]*domain.AnimePage{
		1: {CurrentPage: 1, LastPage: 1, Count: 2, Documents: []domain.Anime{geass, aot}},
	}}
	conn := &fakeConn{online: true}
	svc := NewService(zerolog.Nop(), client, repo, conn, Options{WriteThrough: true})

	states, cancel := record(svc.AnimeList())
	defer cancel()

	svc.LoadAnimeList(ctx)
	final := assertSequence(t, *states, domain.StateSuccess)
	if len(final.Data) != 2 {
		t.Fatalf("Expected 2 anime, got %d", len(final.Data))
	}

	// offline filtered read comes from the store
	conn.online = false
	svc.LoadFilteredAnimeList(ctx, &domain.FilterCriteria{Title: "geass"})
	filtered, _ := svc.FilteredAnimeList().Get()
	if !filtered.IsOffline() || len(filtered.Data) != 1 || filtered.Data[0].ID != 1575 {
		t.Fatalf("unexpected offline filtered state: %+v", filtered)
	}
}

func TestLoadAnimeByYear(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	client := &fakeClient{pages: map[int]*domain.AnimePage{
		1: {CurrentPage: 1, LastPage: 1, Documents: []domain.Anime{attackOnTitan()}},
	}}
	conn := &fakeConn{online: true}
	svc := NewService(zerolog.Nop(), client, repo, conn, Options{WriteThrough: true})

	svc.LoadAnimeByYear(ctx, 2013)
	st, _ := svc.Anime().Get()
	if st.Kind != domain.StateSuccess || st.Data.ID != 16498 {
		t.Fatalf("unexpected state: %+v", st)
	}
	if client.criteria == nil || client.criteria.Year == nil || *client.criteria.Year != 2013 {
		t.Fatalf("Expected year criteria, got %+v", client.criteria)
	}

	conn.online = false
	svc.LoadAnimeByYear(ctx, 2013)
	st, _ = svc.Anime().Get()
	if !st.IsOffline() || st.Data.ID != 16498 {
		t.Fatalf("unexpected offline state: %+v", st)
	}

	svc.LoadAnimeByYear(ctx, 1999)
	st, _ = svc.Anime().Get()
	if st.Kind != domain.StateError {
		t.Fatalf("Expected error for uncached year, got %+v", st)
	}
}

func TestLoadRandomAnimeList(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		online  bool
		cached  []domain.Anime
		random  []domain.Anime
		kind    domain.StateKind
		message string
	}{
		{name: "online", online: true, random: []domain.Anime{attackOnTitan()}, kind: domain.StateSuccess, message: ""},
		{name: "online empty", online: true, kind: domain.StateError, message: domain.MessageNA},
		{name: "offline degrades to cache", cached: []domain.Anime{attackOnTitan()}, kind: domain.StateSuccess, message: domain.MessageOffline},
		{name: "offline empty cache", kind: domain.StateError, message: domain.MessageNoConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(t)
			if err := repo.UpsertAll(ctx, tt.cached); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			client := &fakeClient{random: tt.random}
			svc := NewService(zerolog.Nop(), client, repo, &fakeConn{online: tt.online}, Options{WriteThrough: true, RandomCount: 5})

			states, cancel := record(svc.RandomAnimeList())
			defer cancel()

			svc.LoadRandomAnimeList(ctx)

			final := assertSequence(t, *states, tt.kind)
			if final.Message != tt.message {
				t.Fatalf("Expected message %q, got %q", tt.message, final.Message)
			}
		})
	}
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	nsfw := domain.Anime{ID: 2, NSFW: true}
	client := &fakeClient{pages: map[int]*domain.AnimePage{
		1: {CurrentPage: 1, LastPage: 2, Documents: []domain.Anime{attackOnTitan(), {ID: 1}}},
		2: {CurrentPage: 2, LastPage: 2, Documents: []domain.Anime{nsfw}},
	}}
	svc := NewService(zerolog.Nop(), client, repo, &fakeConn{online: true}, Options{})

	stats, err := svc.Sync(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Pages != 2 || stats.Fetched != 3 || stats.Stored != 3 || stats.NSFW != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.CachedTotal != 3 || stats.LastPage != 2 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
}

func TestSync_Offline(t *testing.T) {
	svc := NewService(zerolog.Nop(), &fakeClient{}, newRepo(t), &fakeConn{online: false}, Options{})

	if _, err := svc.Sync(context.Background(), 1); err == nil {
		t.Fatal("Expected error when offline")
	}
}

func TestClearAndForget(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	svc := NewService(zerolog.Nop(), &fakeClient{}, repo, &fakeConn{}, Options{})

	if err := svc.Store(ctx, []domain.Anime{attackOnTitan(), {ID: 1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Forget(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, _ := svc.Cached(ctx)
	if len(list) != 1 {
		t.Fatalf("Expected 1 cached anime, got %d", len(list))
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatalf("Expected empty store, got %d", n)
	}
}

func TestCloseUnregistersSubscribers(t *testing.T) {
	svc := NewService(zerolog.Nop(), &fakeClient{}, newRepo(t), &fakeConn{}, Options{})

	sub := svc.AnimeList().Subscribe()
	svc.Anime().Observe(func(domain.RequestState[*domain.Anime]) {})

	svc.Close()

	if _, ok := <-sub.C(); ok {
		t.Fatal("Expected subscription channel to be closed")
	}
	svc.LoadAnime(context.Background(), 1)
	if _, ok := svc.Anime().Get(); ok {
		t.Fatal("Expected no state after close")
	}
}
