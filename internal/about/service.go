// Package about loads the GitHub profile shown in the about-me panel.
package about

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
	"github.com/varoOP/aniview/internal/live"
)

type Service struct {
	log    zerolog.Logger
	client domain.ProfileClient
	repo   domain.ProfileRepo
	conn   domain.Connectivity
	login  string

	profile *live.Value[domain.RequestState[*domain.Profile]]
}

func NewService(log zerolog.Logger, client domain.ProfileClient, repo domain.ProfileRepo, conn domain.Connectivity, login string) *Service {
	return &Service{
		log:     log.With().Str("module", "about").Logger(),
		client:  client,
		repo:    repo,
		conn:    conn,
		login:   strings.TrimSpace(login),
		profile: live.New[domain.RequestState[*domain.Profile]](),
	}
}

// Profile is the stream of about-me request states
func (s *Service) Profile() *live.Value[domain.RequestState[*domain.Profile]] {
	return s.profile
}

// LoadAboutMe fetches the configured user's profile, falling back to the cached
// copy when offline.
func (s *Service) LoadAboutMe(ctx context.Context) {
	id := uuid.NewString()
	s.profile.Set(domain.Loading[*domain.Profile](id, domain.LoadingShow))

	var result domain.RequestState[*domain.Profile]
	if s.login == "" {
		result = domain.Failure[*domain.Profile](id, "github_user is not configured")
	} else {
		s.conn.RunGated(ctx, func() {
			result = s.online(ctx, id)
		}, func() {
			result = s.offline(ctx, id)
		})
	}

	s.profile.Set(domain.Loading[*domain.Profile](id, domain.LoadingHide))
	s.profile.Set(result)
}

func (s *Service) online(ctx context.Context, id string) domain.RequestState[*domain.Profile] {
	p, err := s.client.Profile(ctx, s.login)
	if err != nil {
		s.log.Error().Err(err).Str("login", s.login).Msg("profile request failed")
		return domain.Failure[*domain.Profile](id, domain.ErrorMessage(err))
	}

	if err := s.repo.Upsert(ctx, *p); err != nil {
		s.log.Error().Err(err).Msg("failed to cache profile")
	}
	return domain.Success(id, p, "")
}

func (s *Service) offline(ctx context.Context, id string) domain.RequestState[*domain.Profile] {
	p, err := s.repo.Find(ctx, s.login)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Error().Err(err).Msg("local store read failed")
		}
		return domain.Failure[*domain.Profile](id, domain.ErrorMessage(domain.ErrOffline))
	}
	return domain.Success(id, p, domain.MessageOffline)
}

// Close unregisters every subscriber
func (s *Service) Close() {
	s.profile.Close()
}
