package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvoronov/storefront/internal/models"
)

// ErrTokenConsumed is returned when a rotation loses the conditional update,
// i.e. the token was already used or revoked by another request.
var ErrTokenConsumed = errors.New("refresh token already consumed")

func (r *GormRepo) CreateRefreshToken(ctx context.Context, userID uint, expiresAt time.Time) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: expiresAt,
	}
	if err := r.DB.WithContext(ctx).Create(rt).Error; err != nil {
		return nil, err
	}
	return rt, nil
}

// FindActiveRefreshToken returns the row only while it is neither used nor
// revoked. Expiry is the caller's check, against its own clock.
func (r *GormRepo) FindActiveRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.DB.WithContext(ctx).
		Where("token = ? AND used = ? AND revoked = ?", token, false, false).
		First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// RotateRefreshToken consumes oldToken and persists its replacement in one
// transaction. The consume is a conditional update, so of two concurrent
// rotations of the same token exactly one succeeds; the loser gets
// ErrTokenConsumed.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldToken string, replacement *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("token = ? AND used = ? AND revoked = ?", oldToken, false, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenConsumed
		}
		return tx.Create(replacement).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}
