package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mvoronov/storefront/internal/events"
	"github.com/mvoronov/storefront/internal/logging"
	"github.com/mvoronov/storefront/internal/models"
	"github.com/mvoronov/storefront/internal/repo"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
}

func NewOrderService(r *repo.GormRepo, producer *events.Producer) *OrderService {
	return &OrderService{Repo: r, Events: producer}
}

type OrderItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

// CreateOrder snapshots product name and price into the order items, so later
// catalog edits do not rewrite order history.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, items []OrderItemInput) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	var total int64
	orderItems := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		if item.Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}

		product, err := s.Repo.FindProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrValidation, item.ProductID)
			}
			return nil, err
		}

		lineTotal := int64(item.Quantity) * product.Price
		total += lineTotal
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			LineTotal:   lineTotal,
		})
	}

	order := &models.Order{
		UserID: userID,
		Status: models.OrderStatusPending,
		Total:  total,
		Items:  orderItems,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	logging.FromContext(ctx).Info("order created", "order_id", order.ID, "user_id", userID, "total", total)

	s.Events.PublishLogged(ctx, events.TopicOrderEvents, fmt.Sprint(order.ID), map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"user_id":  userID,
		"total":    total,
	})

	return order, nil
}

// GetOrder returns the order if the caller owns it or is an admin.
func (s *OrderService) GetOrder(ctx context.Context, orderID, callerID uint, isAdmin bool) (*models.Order, error) {
	order, err := s.Repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.UserID != callerID && !isAdmin {
		return nil, fmt.Errorf("%w: order %d", ErrForbidden, orderID)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID, offset, limit)
}
