package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vmkazarin/online_store/internal/models"
	"github.com/vmkazarin/online_store/internal/repo"
)

type WishlistService struct {
	Repo *repo.GormRepo
}

// Add is idempotent: wishing for a product twice keeps a single entry.
func (s *WishlistService) Add(ctx context.Context, userID, productID uint) (*models.WishlistItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}

	item := models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.Repo.AddToWishlist(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	return s.Repo.ListWishlist(ctx, userID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID uint) error {
	if err := s.Repo.RemoveFromWishlist(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d is not in the wishlist", ErrNotFound, productID)
		}
		return err
	}
	return nil
}
