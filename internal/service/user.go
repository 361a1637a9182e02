package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"gorm.io/gorm"

	"github.com/mvoronov/storefront/internal/events"
	"github.com/mvoronov/storefront/internal/logging"
	"github.com/mvoronov/storefront/internal/models"
	"github.com/mvoronov/storefront/internal/password"
	"github.com/mvoronov/storefront/internal/repo"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type UserService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
}

func NewUserService(r *repo.GormRepo, producer *events.Producer) *UserService {
	return &UserService{Repo: r, Events: producer}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Register creates a user with the default "User" role. Username and email
// must be unique among non-deleted users.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.register", "username", in.Username)

	if in.Username == "" {
		return nil, fmt.Errorf("%w: username required", ErrValidation)
	}
	if !emailRe.MatchString(in.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if !passwordOK(in.Password) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters with upper, lower, digit and special", ErrValidation)
	}

	exists, err := s.Repo.UserExists(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
	}

	hash, salt, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		PasswordSalt: salt,
		FullName:     in.FullName,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	defaultRole, err := s.Repo.FindRoleByName(ctx, repo.RoleUser)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("default role %q not seeded", repo.RoleUser)
		}
		return nil, fmt.Errorf("find default role: %w", err)
	}
	if err := s.Repo.AttachRole(ctx, user, defaultRole); err != nil {
		return nil, fmt.Errorf("attach default role: %w", err)
	}
	user.Roles = []models.Role{*defaultRole}

	l.Info("user registered", "user_id", user.ID)

	s.Events.PublishLogged(ctx, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return user, nil
}

// passwordOK enforces the registration policy: length >= 8 with at least one
// upper-case letter, lower-case letter, digit and special character.
func passwordOK(p string) bool {
	if len(p) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}
