package anime

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
	"github.com/varoOP/aniview/internal/live"
)

// Options tunes the mediator
type Options struct {
	// WriteThrough persists online results to the local store
	WriteThrough bool
	RandomCount  int
	NSFW         bool
}

// Service mediates between the remote catalog and the local store. Every load
// is gated on connectivity and its progress is published on one of four streams.
type Service struct {
	log    zerolog.Logger
	client domain.AnimeClient
	repo   domain.AnimeRepo
	conn   domain.Connectivity
	opts   Options

	animeList    *live.Value[domain.RequestState[[]domain.Anime]]
	anime        *live.Value[domain.RequestState[*domain.Anime]]
	filteredList *live.Value[domain.RequestState[[]domain.Anime]]
	randomList   *live.Value[domain.RequestState[[]domain.Anime]]
}

// NewService creates the anime mediator
func NewService(log zerolog.Logger, client domain.AnimeClient, repo domain.AnimeRepo, conn domain.Connectivity, opts Options) *Service {
	if opts.RandomCount <= 0 {
		opts.RandomCount = 10
	}
	return &Service{
		log:          log.With().Str("module", "anime").Logger(),
		client:       client,
		repo:         repo,
		conn:         conn,
		opts:         opts,
		animeList:    live.New[domain.RequestState[[]domain.Anime]](),
		anime:        live.New[domain.RequestState[*domain.Anime]](),
		filteredList: live.New[domain.RequestState[[]domain.Anime]](),
		randomList:   live.New[domain.RequestState[[]domain.Anime]](),
	}
}

func (s *Service) AnimeList() Stream[domain.RequestState[[]domain.Anime]] {
	return s.animeList
}

func (s *Service) Anime() Stream[domain.RequestState[*domain.Anime]] {
	return s.anime
}

func (s *Service) FilteredAnimeList() Stream[domain.RequestState[[]domain.Anime]] {
	return s.filteredList
}

func (s *Service) RandomAnimeList() Stream[domain.RequestState[[]domain.Anime]] {
	return s.randomList
}

// LoadAnimeList loads the first catalog page without constraints
func (s *Service) LoadAnimeList(ctx context.Context) {
	s.fetchList(ctx, s.animeList, nil)
}

// LoadFilteredAnimeList loads the first catalog page matching criteria
func (s *Service) LoadFilteredAnimeList(ctx context.Context, criteria *domain.FilterCriteria) {
	s.fetchList(ctx, s.filteredList, criteria)
}

// LoadAnime loads a single anime by catalog id
func (s *Service) LoadAnime(ctx context.Context, id int) {
	s.fetchOne(ctx,
		func() (*domain.Anime, error) { return s.client.GetAnime(ctx, id) },
		func() (*domain.Anime, error) { return s.repo.FindByID(ctx, id) },
	)
}

// LoadAnimeByYear loads the first anime of a season year
func (s *Service) LoadAnimeByYear(ctx context.Context, year int) {
	s.fetchOne(ctx,
		func() (*domain.Anime, error) {
			page, err := s.client.ListAnime(ctx, &domain.FilterCriteria{Year: domain.Ptr(year)}, 1)
			if err != nil {
				return nil, err
			}
			if page == nil || len(page.Documents) == 0 {
				return nil, nil
			}
			return &page.Documents[0], nil
		},
		func() (*domain.Anime, error) { return s.repo.FindByYear(ctx, year) },
	)
}

// LoadRandomAnimeList loads a random sample. Offline it degrades to a random
// sample of the local store.
func (s *Service) LoadRandomAnimeList(ctx context.Context) {
	e := newEmitter(s.log, s.randomList)
	e.show()

	s.conn.RunGated(ctx, func() {
		list, err := s.client.RandomAnime(ctx, s.opts.RandomCount, s.opts.NSFW)
		if err != nil {
			s.log.Error().Err(err).Msg("random anime request failed")
			e.failure(domain.ErrorMessage(err))
			return
		}
		if len(list) == 0 {
			e.failure(domain.MessageNA)
			return
		}
		s.persist(ctx, list...)
		e.success(list, "")
	}, func() {
		list, err := s.repo.Random(ctx, s.opts.RandomCount, s.opts.NSFW)
		s.finishOffline(e, list, err)
	})
}

func (s *Service) fetchList(ctx context.Context, out *live.Value[domain.RequestState[[]domain.Anime]], criteria *domain.FilterCriteria) {
	e := newEmitter(s.log, out)
	e.show()

	s.conn.RunGated(ctx, func() {
		page, err := s.client.ListAnime(ctx, criteria, 1)
		if err != nil {
			s.log.Error().Err(err).Msg("anime list request failed")
			e.failure(domain.ErrorMessage(err))
			return
		}
		if page == nil || len(page.Documents) == 0 {
			e.failure(domain.MessageNA)
			return
		}
		s.persist(ctx, page.Documents...)
		e.success(page.Documents, "")
	}, func() {
		list, err := s.repo.Search(ctx, criteria)
		s.finishOffline(e, list, err)
	})
}

func (s *Service) fetchOne(ctx context.Context, remote, local func() (*domain.Anime, error)) {
	e := newEmitter(s.log, s.anime)
	e.show()

	s.conn.RunGated(ctx, func() {
		anime, err := remote()
		if err != nil {
			s.log.Error().Err(err).Msg("anime request failed")
			e.failure(domain.ErrorMessage(err))
			return
		}
		if anime == nil {
			e.failure(domain.MessageNA)
			return
		}
		s.persist(ctx, *anime)
		e.success(anime, "")
	}, func() {
		anime, err := local()
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.log.Error().Err(err).Msg("local store read failed")
			}
			e.failure(domain.ErrorMessage(domain.ErrOffline))
			return
		}
		e.success(anime, domain.MessageOffline)
	})
}

// finishOffline publishes a list read from the local store. Store failures
// count as a cache miss.
func (s *Service) finishOffline(e *emitter[[]domain.Anime], list []domain.Anime, err error) {
	if err != nil {
		s.log.Error().Err(err).Msg("local store read failed")
		list = nil
	}
	if len(list) == 0 {
		e.failure(domain.ErrorMessage(domain.ErrOffline))
		return
	}
	e.success(list, domain.MessageOffline)
}

func (s *Service) persist(ctx context.Context, anime ...domain.Anime) {
	if !s.opts.WriteThrough {
		return
	}
	if err := s.repo.UpsertAll(ctx, anime); err != nil {
		s.log.Error().Err(err).Int("count", len(anime)).Msg("failed to write through to local store")
	}
}

// Sync caches the first pages of the catalog. It requires connectivity.
func (s *Service) Sync(ctx context.Context, pages int) (domain.Statistics, error) {
	stats := domain.Statistics{StartedAt: time.Now()}
	if pages <= 0 {
		pages = 1
	}

	var err error
	s.conn.RunGated(ctx, func() {
		err = s.sync(ctx, pages, &stats)
	}, func() {
		err = domain.ErrOffline
	})

	stats.FinishedAt = time.Now()
	stats.Duration = stats.FinishedAt.Sub(stats.StartedAt)
	if total, cerr := s.repo.Count(ctx); cerr == nil {
		stats.CachedTotal = total
	} else {
		s.log.Warn().Err(cerr).Msg("failed to count cached anime")
	}

	if err != nil {
		return stats, errors.Wrap(err, "sync failed")
	}

	s.log.Info().
		Int("pages", stats.Pages).
		Int("fetched", stats.Fetched).
		Int("stored", stats.Stored).
		Int("failed", stats.Failed).
		Dur("duration", stats.Duration).
		Msg("sync finished")

	return stats, nil
}

func (s *Service) sync(ctx context.Context, pages int, stats *domain.Statistics) error {
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := s.client.ListAnime(ctx, nil, page)
		if err != nil {
			return errors.Wrapf(err, "failed to fetch page %d", page)
		}
		if result == nil || len(result.Documents) == 0 {
			break
		}

		stats.Pages++
		stats.Fetched += len(result.Documents)
		stats.LastPage = result.LastPage
		for _, a := range result.Documents {
			if a.NSFW {
				stats.NSFW++
			}
		}

		if err := s.repo.UpsertAll(ctx, result.Documents); err != nil {
			s.log.Error().Err(err).Int("page", page).Msg("failed to store page")
			stats.Failed += len(result.Documents)
		} else {
			stats.Stored += len(result.Documents)
		}

		s.log.Debug().Int("page", page).Int("last_page", result.LastPage).Msg("synced page")

		if result.LastPage > 0 && page >= result.LastPage {
			break
		}
	}
	return nil
}

// Cached returns every anime in the local store
func (s *Service) Cached(ctx context.Context) ([]domain.Anime, error) {
	return s.repo.List(ctx)
}

// Store writes anime to the local store, replacing entries with the same id
func (s *Service) Store(ctx context.Context, anime []domain.Anime) error {
	return s.repo.UpsertAll(ctx, anime)
}

// Clear deletes every cached anime
func (s *Service) Clear(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

// Forget deletes a single cached anime
func (s *Service) Forget(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Close unregisters every subscriber of the four streams
func (s *Service) Close() {
	s.animeList.Close()
	s.anime.Close()
	s.filteredList.Close()
	s.randomList.Close()
}
