package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mvoronov/storefront/internal/events"
	"github.com/mvoronov/storefront/internal/logging"
	"github.com/mvoronov/storefront/internal/models"
	"github.com/mvoronov/storefront/internal/payments"
	"github.com/mvoronov/storefront/internal/repo"
)

type PaymentService struct {
	Repo    *repo.GormRepo
	Gateway payments.Gateway
	Events  *events.Producer
	Now     func() time.Time
}

func NewPaymentService(r *repo.GormRepo, gateway payments.Gateway, producer *events.Producer) *PaymentService {
	return &PaymentService{
		Repo:    r,
		Gateway: gateway,
		Events:  producer,
		Now:     time.Now,
	}
}

// CreateIntent opens a payment intent for the order total and records it.
// Only the order owner (or an admin) may pay for an order.
func (s *PaymentService) CreateIntent(ctx context.Context, orderID, callerID uint, isAdmin bool, currency string) (*models.Payment, string, error) {
	if s.Gateway == nil {
		return nil, "", fmt.Errorf("payments are not configured")
	}

	order, err := s.Repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, "", err
	}
	if order.UserID != callerID && !isAdmin {
		return nil, "", fmt.Errorf("%w: order %d", ErrForbidden, orderID)
	}

	intent, err := s.Gateway.CreateIntent(ctx, order.Total, order.ID, currency)
	if err != nil {
		return nil, "", fmt.Errorf("create payment intent: %w", err)
	}

	payment := &models.Payment{
		OrderID:   order.ID,
		Amount:    intent.Amount,
		IntentID:  intent.ID,
		Status:    string(intent.Status),
		CreatedAt: s.Now().UTC(),
	}
	if err := s.Repo.CreatePayment(ctx, payment); err != nil {
		return nil, "", fmt.Errorf("record payment: %w", err)
	}

	logging.FromContext(ctx).Info("payment intent created", "order_id", order.ID, "intent_id", intent.ID)

	s.Events.PublishLogged(ctx, events.TopicPaymentEvents, intent.ID, map[string]any{
		"type":      "payment_created",
		"order_id":  order.ID,
		"intent_id": intent.ID,
		"amount":    intent.Amount,
	})

	return payment, intent.ClientSecret, nil
}

// ConfirmIntent confirms the intent with the processor and stores the
// resulting status.
func (s *PaymentService) ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) (*models.Payment, error) {
	if s.Gateway == nil {
		return nil, fmt.Errorf("payments are not configured")
	}

	if _, err := s.Repo.FindPaymentByIntentID(ctx, intentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment intent %s", ErrNotFound, intentID)
		}
		return nil, err
	}

	intent, err := s.Gateway.ConfirmIntent(ctx, intentID, paymentMethodID)
	if err != nil {
		return nil, fmt.Errorf("confirm payment intent: %w", err)
	}

	if err := s.Repo.UpdatePaymentStatus(ctx, intentID, string(intent.Status)); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	return s.Repo.FindPaymentByIntentID(ctx, intentID)
}
