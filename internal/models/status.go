package models

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

// orderTransitions holds every allowed status edge. Cancellation is only
// possible before shipping; the fulfilment path moves one step at a time.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:  {OrderStatusCancelled, OrderStatusShipped},
	OrderStatusShipped: {OrderStatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusCancelled, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// CanAdvanceTo reports whether next is a move along the fulfilment path.
// Cancellation is excluded: it restocks, so it runs through the owner's
// cancel flow, never through a plain status update.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	return next != OrderStatusCancelled && s.CanTransitionTo(next)
}

func (s OrderStatus) CanBeCancelled() bool {
	return s.CanTransitionTo(OrderStatusCancelled)
}
