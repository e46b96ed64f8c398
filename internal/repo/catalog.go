package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/vmkazarin/online_store/internal/models"
	"github.com/vmkazarin/online_store/internal/transport"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListProducts pages in ascending id order, which keeps pages stable while
// rows are being inserted.
func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int, categoryID uint) (int64, []models.Product, error) {
	var total int64
	countQ := r.DB.WithContext(ctx).Model(&models.Product{})
	if categoryID != 0 {
		countQ = countQ.Where("category_id = ?", categoryID)
	}
	if err := countQ.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	findQ := r.DB.WithContext(ctx).Model(&models.Product{})
	if categoryID != 0 {
		findQ = findQ.Where("category_id = ?", categoryID)
	}
	if err := findQ.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

func (r *GormRepo) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.Stock != nil {
		prod.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		prod.CategoryID = *req.CategoryID
	}

	if err := r.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		return nil, err
	}

	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
