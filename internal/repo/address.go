package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/vmkazarin/online_store/internal/models"
)

func (r *GormRepo) CreateAddress(ctx context.Context, addr *models.Address) error {
	return r.DB.WithContext(ctx).Create(addr).Error
}

func (r *GormRepo) GetAddress(ctx context.Context, id uint) (*models.Address, error) {
	var addr models.Address
	if err := r.DB.WithContext(ctx).First(&addr, id).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

func (r *GormRepo) ListAddresses(ctx context.Context, userID uint) ([]models.Address, error) {
	var addrs []models.Address
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&addrs).Error; err != nil {
		return nil, err
	}
	return addrs, nil
}

func (r *GormRepo) SaveAddress(ctx context.Context, addr *models.Address) error {
	return r.DB.WithContext(ctx).Save(addr).Error
}

func (r *GormRepo) DeleteAddress(ctx context.Context, userID, id uint) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
