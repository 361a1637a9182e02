package repo

import (
	"context"

	"github.com/mvoronov/storefront/internal/models"
)

func (r *GormRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.DB.WithContext(ctx).Create(payment).Error
}

func (r *GormRepo) FindPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.DB.WithContext(ctx).Where("intent_id = ?", intentID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *GormRepo) UpdatePaymentStatus(ctx context.Context, intentID, status string) error {
	return r.DB.WithContext(ctx).
		Model(&models.Payment{}).
		Where("intent_id = ?", intentID).
		Update("status", status).Error
}
