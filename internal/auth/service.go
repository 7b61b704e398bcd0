package auth

import (
	"context"
	"log/slog"

	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/errors"
)

type Service struct {
	repo     *Repository
	provider *Provider
	logger   *slog.Logger
}

func NewService(repo *Repository, provider *Provider, logger *slog.Logger) *Service {
	logger.Debug("Initializing auth service")

	return &Service{
		repo:     repo,
		provider: provider,
		logger:   logger,
	}
}

func (s *Service) Provider() *Provider {
	return s.provider
}

func (s *Service) GetUserByID(ctx context.Context, id int) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Authenticate completes the OAuth code flow: exchanges the code,
// fetches the identity, and finds or creates the matching account.
func (s *Service) Authenticate(ctx context.Context, code string) (*User, error) {
	token, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	info, err := s.provider.FetchUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	if info.Email == "" || !info.EmailVerified {
		return nil, errors.Unauthorized("a verified email address is required")
	}

	user, err := s.repo.FindBySubject(ctx, info.Subject)
	if err == nil {
		return user, nil
	}
	if errors.GetType(err) != errors.ErrorTypeNotFound {
		return nil, err
	}

	username := info.PreferredUsername
	if username == "" {
		username = info.Email
	}
	displayName := info.Name
	if displayName == "" {
		displayName = username
	}

	role := "user"
	if info.Email == config.GlobalConfig.Admin.Email {
		role = "admin"
	}

	s.logger.Info("Creating new user from OAuth identity",
		"username", username,
		"role", role)

	return s.repo.Create(ctx, info.Subject, username, info.Email, displayName, role)
}
