package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvoronov/storefront/internal/events"
	"github.com/mvoronov/storefront/internal/logging"
	"github.com/mvoronov/storefront/internal/models"
	"github.com/mvoronov/storefront/internal/password"
	"github.com/mvoronov/storefront/internal/repo"
	"github.com/mvoronov/storefront/internal/tokens"
)

type AuthService struct {
	Repo       *repo.GormRepo
	Issuer     *tokens.Issuer
	Events     *events.Producer
	RefreshTTL time.Duration
	Now        func() time.Time
}

func NewAuthService(r *repo.GormRepo, issuer *tokens.Issuer, producer *events.Producer, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		Repo:       r,
		Issuer:     issuer,
		Events:     producer,
		RefreshTTL: refreshTTL,
		Now:        time.Now,
	}
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func roleNames(roles []models.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return names
}

// Login checks the credentials against a non-deleted user matched by username
// or email. Unknown identifier and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, identifier, pass string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := password.Verify(pass, user.PasswordHash, user.PasswordSalt)
	if err != nil {
		// Corrupt stored hash/salt is a data fault, not a bad login.
		l.Error("credential verification failed", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("verify credentials: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.Issuer.Issue(user, roleNames(user.Roles))
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshExp := s.Now().UTC().Add(s.RefreshTTL)
	rt, err := s.Repo.CreateRefreshToken(ctx, user.ID, refreshExp)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	s.Events.PublishLogged(ctx, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: rt.Token,
		AccessExp:    s.Now().UTC().Add(s.Issuer.TTL),
		RefreshExp:   refreshExp,
	}, nil
}

// Refresh exchanges a refresh token for a new access token, consuming the
// presented token and issuing a replacement in the same transaction. A token
// can be consumed exactly once, even under concurrent calls.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	rt, err := s.Repo.FindActiveRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	now := s.Now().UTC()
	if rt.ExpiresAt.Before(now) {
		return nil, ErrInvalidRefreshToken
	}

	replacement := &models.RefreshToken{
		UserID:    rt.UserID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := s.Repo.RotateRefreshToken(ctx, refreshToken, replacement); err != nil {
		if errors.Is(err, repo.ErrTokenConsumed) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	// Roles may have changed since login; re-read the user.
	user, err := s.Repo.FindUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	accessToken, err := s.Issuer.Issue(user, roleNames(user.Roles))
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: replacement.Token,
		AccessExp:    now.Add(s.Issuer.TTL),
		RefreshExp:   replacement.ExpiresAt,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}
