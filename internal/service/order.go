package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vmkazarin/online_store/internal/logging"
	"github.com/vmkazarin/online_store/internal/models"
	"github.com/vmkazarin/online_store/internal/mykafka"
	"github.com/vmkazarin/online_store/internal/repo"
	"github.com/vmkazarin/online_store/internal/transport"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

// Checkout turns the caller's cart into a placed order. Stock checks, stock
// decrements, the price snapshot and the cart wipe all happen inside one
// transaction in the repo, so a failed checkout leaves nothing behind.
func (s *OrderService) Checkout(ctx context.Context, userID uint, req transport.CheckoutRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.checkout")

	if req.AddressID != 0 {
		addr, err := s.Repo.GetAddress(ctx, req.AddressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: address %d", ErrNotFound, req.AddressID)
			}
			return nil, err
		}
		if addr.UserID != userID {
			return nil, fmt.Errorf("%w: address %d", ErrNotFound, req.AddressID)
		}
	}

	order, err := s.Repo.CheckoutCart(ctx, userID, req.AddressID)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrEmptyCart):
			return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
		case errors.Is(err, repo.ErrInsufficientStock):
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		l.Error("checkout_error", "user_id", userID, "error", err)
		return nil, err
	}

	publish(ctx, s.Producer, mykafka.TopicOrderEvents, fmt.Sprint(order.ID), map[string]any{
		"type":     "order_placed",
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.Total,
	})
	l.Info("order_placed", "order_id", order.ID, "user_id", userID, "total", order.Total)
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, offset, limit)
}

// GetOrder returns the order to its owner or to an admin; everyone else is
// refused rather than told the order does not exist.
func (s *OrderService) GetOrder(ctx context.Context, callerID uint, callerRole string, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.UserID != callerID && callerRole != models.RoleAdmin {
		return nil, fmt.Errorf("%w: order %d belongs to another user", ErrForbidden, orderID)
	}
	return order, nil
}

// Cancel lets a customer back out of an order that has not shipped yet.
// Cancelling restocks every line, since the goods never left the warehouse.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %d belongs to another user", ErrForbidden, orderID)
	}
	if !order.Status.CanBeCancelled() {
		return nil, fmt.Errorf("%w: cannot cancel an order in status %q", ErrConflict, order.Status)
	}

	if err := s.Repo.CancelOrder(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrStaleOrderStatus) {
			return nil, fmt.Errorf("%w: order %d is no longer cancellable", ErrConflict, orderID)
		}
		return nil, err
	}
	order.Status = models.OrderStatusCancelled

	publish(ctx, s.Producer, mykafka.TopicOrderEvents, fmt.Sprint(orderID), map[string]any{
		"type":     "order_cancelled",
		"order_id": orderID,
		"user_id":  userID,
	})
	logging.FromContext(ctx).Info("order_cancelled", "order_id", orderID, "user_id", userID)
	return order, nil
}

// UpdateStatus advances an order along placed -> shipped -> delivered. Any
// other move is a conflict, cancellation included: that belongs to Cancel,
// which restocks. Tracking details are only recorded when the order ships.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, req transport.UpdateOrderStatusRequest) (*models.Order, error) {
	next := models.OrderStatus(req.Status)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	if !order.Status.CanAdvanceTo(next) {
		return nil, fmt.Errorf("%w: cannot move order from %q to %q", ErrConflict, order.Status, next)
	}

	tracking, carrier := "", ""
	if next == models.OrderStatusShipped {
		tracking, carrier = req.TrackingNumber, req.Carrier
	}
	if err := s.Repo.TransitionOrder(ctx, orderID, order.Status, next, tracking, carrier); err != nil {
		if errors.Is(err, repo.ErrStaleOrderStatus) {
			return nil, fmt.Errorf("%w: order %d changed status concurrently", ErrConflict, orderID)
		}
		return nil, err
	}
	order.Status = next
	if tracking != "" {
		order.TrackingNumber = tracking
	}
	if carrier != "" {
		order.Carrier = carrier
	}

	publish(ctx, s.Producer, mykafka.TopicOrderEvents, fmt.Sprint(orderID), map[string]any{
		"type":     "order_status_changed",
		"order_id": orderID,
		"status":   string(next),
	})
	logging.FromContext(ctx).Info("order_status_changed", "order_id", orderID, "status", next)
	return order, nil
}
