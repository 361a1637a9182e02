package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mvoronov/storefront/internal/models"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// SeedRoles makes sure the built-in roles exist.
func (r *GormRepo) SeedRoles(ctx context.Context) error {
	for _, name := range []string{RoleAdmin, RoleUser} {
		role := models.Role{Name: name}
		err := r.DB.WithContext(ctx).
			Where("name = ?", name).
			FirstOrCreate(&role).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *GormRepo) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
