package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPlaced, OrderStatusCancelled, OrderStatusShipped, OrderStatusDelivered} {
		require.True(t, s.Valid(), "%s", s)
	}
	require.False(t, OrderStatus("teleported").Valid())
	require.False(t, OrderStatus("").Valid())
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPlaced, OrderStatusCancelled, true},
		{OrderStatusPlaced, OrderStatusShipped, true},
		{OrderStatusPlaced, OrderStatusDelivered, false},
		{OrderStatusPlaced, OrderStatusPlaced, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusShipped, OrderStatusPlaced, false},
		{OrderStatusDelivered, OrderStatusPlaced, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPlaced, false},
		{OrderStatusCancelled, OrderStatusShipped, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanBeCancelled(t *testing.T) {
	require.True(t, OrderStatusPlaced.CanBeCancelled())
	require.False(t, OrderStatusShipped.CanBeCancelled())
	require.False(t, OrderStatusDelivered.CanBeCancelled())
	require.False(t, OrderStatusCancelled.CanBeCancelled())
}

// The fulfilment path never includes cancellation, even where the full
// transition table allows it.
func TestCanAdvanceTo(t *testing.T) {
	require.True(t, OrderStatusPlaced.CanAdvanceTo(OrderStatusShipped))
	require.True(t, OrderStatusShipped.CanAdvanceTo(OrderStatusDelivered))

	require.False(t, OrderStatusPlaced.CanAdvanceTo(OrderStatusCancelled))
	require.False(t, OrderStatusShipped.CanAdvanceTo(OrderStatusCancelled))
	require.False(t, OrderStatusPlaced.CanAdvanceTo(OrderStatusDelivered))
	require.False(t, OrderStatusDelivered.CanAdvanceTo(OrderStatusShipped))
	require.False(t, OrderStatusCancelled.CanAdvanceTo(OrderStatusShipped))
}
