package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vmkazarin/online_store/internal/logging"
	"github.com/vmkazarin/online_store/internal/models"
	"github.com/vmkazarin/online_store/internal/mykafka"
	"github.com/vmkazarin/online_store/internal/repo"
	"github.com/vmkazarin/online_store/internal/transport"
)

type CartService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

// GetCart prices the cart against the current catalog. Lines whose product
// has been deleted are dropped from the view and pruned from storage.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*transport.CartView, error) {
	items, err := s.Repo.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &transport.CartView{Items: []transport.CartLine{}, Total: decimal.Zero}
	if len(items) == 0 {
		return view, nil
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var gone []uint
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			gone = append(gone, it.ProductID)
			continue
		}
		line := transport.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  it.Quantity,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
		view.Items = append(view.Items, line)
		view.Total = view.Total.Add(line.LineTotal)
	}

	if len(gone) > 0 {
		if err := s.Repo.DeleteCartItemsByProducts(ctx, userID, gone); err != nil {
			logging.FromContext(ctx).Warn("cart prune failed", "user_id", userID, "error", err)
		}
	}

	return view, nil
}

func (s *CartService) AddItem(ctx context.Context, userID uint, req transport.AddCartItemRequest) (*models.CartItem, error) {
	if req.ProductID == 0 {
		return nil, fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if _, err := s.Repo.GetProduct(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, req.ProductID)
		}
		return nil, err
	}

	item := models.CartItem{UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		return nil, err
	}

	publish(ctx, s.Producer, mykafka.TopicCartEvents, fmt.Sprint(userID), map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})
	return &item, nil
}

// UpdateItem sets the absolute quantity of a cart line. Zero removes the
// line. Unlike RemoveItem, a missing line is an error here: the client named
// a line it believes exists.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	if quantity == 0 {
		if _, err := s.Repo.GetCartItem(ctx, userID, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d is not in the cart", ErrNotFound, productID)
			}
			return nil, err
		}
		if err := s.Repo.RemoveFromCart(ctx, userID, productID); err != nil {
			return nil, err
		}
		publish(ctx, s.Producer, mykafka.TopicCartEvents, fmt.Sprint(userID), map[string]any{
			"type":       "cart_item_removed",
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, nil
	}

	if err := s.Repo.SetCartItemQuantity(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d is not in the cart", ErrNotFound, productID)
		}
		return nil, err
	}

	publish(ctx, s.Producer, mykafka.TopicCartEvents, fmt.Sprint(userID), map[string]any{
		"type":       "cart_item_updated",
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})
	return s.Repo.GetCartItem(ctx, userID, productID)
}

// RemoveItem is idempotent: removing a product that is not in the cart
// succeeds without touching anything.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) error {
	if err := s.Repo.RemoveFromCart(ctx, userID, productID); err != nil {
		return err
	}

	publish(ctx, s.Producer, mykafka.TopicCartEvents, fmt.Sprint(userID), map[string]any{
		"type":       "cart_item_removed",
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return err
	}

	publish(ctx, s.Producer, mykafka.TopicCartEvents, fmt.Sprint(userID), map[string]any{
		"type":    "cart_cleared",
		"user_id": userID,
	})
	return nil
}
