package notification

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
)

// Service fans notifications out to every configured channel
type Service struct {
	discord *DiscordService
}

var _ domain.NotificationService = (*Service)(nil)

// NewService creates a notification service. Without a webhook it is a no-op.
func NewService(log zerolog.Logger, webhookURL string) *Service {
	s := &Service{}
	if webhookURL != "" {
		s.discord = NewDiscordService(log, webhookURL)
	}
	return s
}

// SendSuccess sends success notifications through all configured channels
func (s *Service) SendSuccess(ctx context.Context, stats domain.Statistics) error {
	if s.discord == nil {
		return nil
	}
	return s.discord.SendSuccess(ctx, stats)
}

// SendError sends error notifications through all configured channels
func (s *Service) SendError(ctx context.Context, err error) error {
	if s.discord == nil {
		return nil
	}
	return s.discord.SendError(ctx, err)
}
