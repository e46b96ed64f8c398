package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vmkazarin/online_store/internal/models"
	"github.com/vmkazarin/online_store/internal/transport"
)

var ErrCategoryAlreadyExist = errors.New("category already exist")

func (r *GormRepo) CreateCategoryIfNotExists(ctx context.Context, cat *models.Category) error {
	tx := r.DB.WithContext(ctx).Where("name = ?", cat.Name).FirstOrCreate(cat)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrCategoryAlreadyExist
	}
	return nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) PatchCategory(ctx context.Context, req transport.PatchCategoryRequest, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != cat.Name {
		var count int64
		if err := r.DB.WithContext(ctx).Model(&models.Category{}).
			Where("name = ? AND id <> ?", *req.Name, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrCategoryAlreadyExist
		}
		cat.Name = *req.Name
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}

	if err := r.DB.WithContext(ctx).Save(&cat).Error; err != nil {
		return nil, err
	}

	return &cat, nil
}

// Deleting a category leaves its products in place; they keep the old
// category id and simply stop matching any listed category.
func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
