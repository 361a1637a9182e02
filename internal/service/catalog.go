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
	"github.com/mvoronov/storefront/internal/service/search"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  *search.Index
	Events *events.Producer
}

func NewCatalogService(r *repo.GormRepo, index *search.Index, producer *events.Producer) *CatalogService {
	return &CatalogService{Repo: r, Index: index, Events: producer}
}

type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	CategoryID  uint   `json:"category_id"`
}

func (s *CatalogService) validate(in ProductInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	return nil
}

// syncIndex keeps the search index best effort; a search outage must not
// fail catalog writes.
func (s *CatalogService) syncIndex(ctx context.Context, p *models.Product, deleted bool) {
	var err error
	if deleted {
		err = s.Index.DeleteProduct(ctx, p.ID)
	} else {
		err = s.Index.IndexProduct(ctx, p)
	}
	if err != nil {
		logging.FromContext(ctx).Error("search index sync failed", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if err := s.categoryExists(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.syncIndex(ctx, product, false)
	s.Events.PublishLogged(ctx, events.TopicProductEvents, fmt.Sprint(product.ID), map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return product, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) List(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	return s.Repo.ListProducts(ctx, offset, limit)
}

func (s *CatalogService) categoryExists(ctx context.Context, id uint) error {
	if _, err := s.Repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if err := s.categoryExists(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product, err := s.Repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.CategoryID = in.CategoryID

	if err := s.Repo.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.syncIndex(ctx, product, false)
	s.Events.PublishLogged(ctx, events.TopicProductEvents, fmt.Sprint(product.ID), map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	product, err := s.Repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.syncIndex(ctx, product, true)
	s.Events.PublishLogged(ctx, events.TopicProductEvents, fmt.Sprint(id), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	return nil
}

func (s *CatalogService) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	return s.Index.Search(ctx, query, from, size)
}
