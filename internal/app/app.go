package app

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/about"
	"github.com/varoOP/aniview/internal/aniapi"
	"github.com/varoOP/aniview/internal/anime"
	"github.com/varoOP/aniview/internal/database"
	"github.com/varoOP/aniview/internal/domain"
	"github.com/varoOP/aniview/internal/github"
	"github.com/varoOP/aniview/internal/httpx"
	"github.com/varoOP/aniview/internal/live"
	"github.com/varoOP/aniview/internal/network"
	"github.com/varoOP/aniview/internal/notification"
	"github.com/varoOP/aniview/internal/repository"
)

// App holds every service, wired once from the configuration
type App struct {
	log    zerolog.Logger
	config *domain.Config

	db                  *database.DB
	animeRepo           *database.AnimeRepo
	monitor             *network.Monitor
	fileRepo            *repository.FileRepository
	notificationService domain.NotificationService

	Anime *anime.Service
	About *about.Service
}

// New creates the application. Close must be called to release the database
// and unregister subscribers.
func New(log zerolog.Logger, cfg *domain.Config) (*App, error) {
	if err := os.MkdirAll(cfg.DBDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create database directory %s", cfg.DBDir)
	}

	db, err := database.NewDB(cfg.DBDir, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}

	timeouts := httpx.Options{
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		RetryMax:       cfg.RetryMax,
	}

	apiOpts := timeouts
	apiOpts.Token = cfg.APIToken
	aniClient, err := aniapi.NewClient(log, httpx.NewClient(log, apiOpts), cfg.APIBaseURL)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create anime client")
	}

	githubOpts := timeouts
	githubOpts.Token = cfg.GitHubToken
	githubClient := github.NewClient(log, httpx.NewClient(log, githubOpts), cfg.GitHubAPIURL, cfg.GitHubProfileURL, cfg.GitHubToken)

	probeOpts := timeouts
	probeOpts.RetryMax = 0
	monitor := network.NewMonitor(log, httpx.NewClient(log, probeOpts), cfg.ProbeURL, cfg.ProbeTimeout)

	animeRepo := database.NewAnimeRepo(log, db)
	profileRepo := database.NewProfileRepo(log, db)

	return &App{
		log:                 log.With().Str("module", "app").Logger(),
		config:              cfg,
		db:                  db,
		animeRepo:           animeRepo,
		monitor:             monitor,
		fileRepo:            repository.NewFileRepository(log),
		notificationService: notification.NewService(log, cfg.DiscordWebhookURL),
		Anime: anime.NewService(log, aniClient, animeRepo, monitor, anime.Options{
			WriteThrough: cfg.WriteThrough,
			RandomCount:  cfg.RandomCount,
			NSFW:         cfg.NSFW,
		}),
		About: about.NewService(log, githubClient, profileRepo, monitor, cfg.GitHubUser),
	}, nil
}

// Sync warms the local store with the first pages of the catalog and reports
// the outcome through the notification service.
func (a *App) Sync(ctx context.Context, pages int) (stats domain.Statistics, err error) {
	defer func() {
		if err != nil {
			if notifyErr := a.notificationService.SendError(ctx, err); notifyErr != nil {
				a.log.Warn().Err(notifyErr).Msg("Failed to send error notification")
			}
			return
		}
		if notifyErr := a.notificationService.SendSuccess(ctx, stats); notifyErr != nil {
			a.log.Warn().Err(notifyErr).Msg("Failed to send success notification")
		}
	}()

	return a.Anime.Sync(ctx, pages)
}

// Export writes every cached anime to path and returns how many were written
func (a *App) Export(ctx context.Context, path string) (int, error) {
	list, err := a.Anime.Cached(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read local store")
	}
	if err := a.fileRepo.Export(ctx, path, list); err != nil {
		return 0, err
	}
	return len(list), nil
}

// Import loads anime from path into the local store
func (a *App) Import(ctx context.Context, path string) (int, error) {
	list, err := a.fileRepo.Import(ctx, path)
	if err != nil {
		return 0, err
	}
	if err := a.Anime.Store(ctx, list); err != nil {
		return 0, errors.Wrap(err, "failed to write local store")
	}
	return len(list), nil
}

// Feed is the reactive list of cached anime
func (a *App) Feed(ctx context.Context) (*live.Value[[]domain.Anime], error) {
	return a.animeRepo.Feed(ctx)
}

// Watch starts polling connectivity and returns a subscription to its changes
func (a *App) Watch(ctx context.Context, interval time.Duration) *live.Subscription[network.State] {
	a.monitor.Start(ctx, interval)
	return a.monitor.Subscribe()
}

// Connectivity performs a one-shot reachability check
func (a *App) Connectivity(ctx context.Context) network.State {
	return a.monitor.Check(ctx)
}

// Close stops the monitor, unregisters every stream subscriber and closes the database
func (a *App) Close() error {
	a.monitor.Close()
	a.Anime.Close()
	a.About.Close()
	return a.db.Close()
}
