package httpserver_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vmkazarin/online_store/internal/models"
)

func addToCart(t *testing.T, env *testEnv, token string, productID uint, quantity int) {
	t.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{
		"product_id": productID, "quantity": quantity,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)
}

func checkout(t *testing.T, env *testEnv, token string) models.Order {
	t.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/orders", nil, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	return order
}

func productStock(t *testing.T, env *testEnv, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, env.DB.First(&p, id).Error)
	return p.Stock
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(t)
	token, _ := login(t, env)
	widget := seedProduct(t, env, "widget", "10.00", 5)
	gadget := seedProduct(t, env, "gadget", "2.50", 8)

	addToCart(t, env, token, widget.ID, 2)
	addToCart(t, env, token, gadget.ID, 4)

	order := checkout(t, env, token)
	require.Equal(t, models.OrderStatusPlaced, order.Status)
	require.True(t, order.Total.Equal(decimal.RequireFromString("30.00")))
	require.Len(t, order.Items, 2)

	// line snapshots carry the price at checkout time
	require.Equal(t, widget.ID, order.Items[0].ProductID)
	require.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	require.True(t, order.Items[0].LineTotal.Equal(decimal.RequireFromString("20.00")))
	require.Equal(t, gadget.ID, order.Items[1].ProductID)
	require.True(t, order.Items[1].UnitPrice.Equal(decimal.RequireFromString("2.50")))
	require.True(t, order.Items[1].LineTotal.Equal(decimal.RequireFromString("10.00")))

	require.Equal(t, 3, productStock(t, env, widget.ID))
	require.Equal(t, 4, productStock(t, env, gadget.ID))
	require.Empty(t, getCart(t, env, token).Items)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	token, _ := login(t, env)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/orders", nil, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// A checkout that fails on any line must leave stock, cart and orders
// exactly as they were.
func TestCheckoutIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	token, _ := login(t, env)
	plenty := seedProduct(t, env, "plenty", "1.00", 100)
	scarce := seedProduct(t, env, "scarce", "1.00", 1)

	addToCart(t, env, token, plenty.ID, 5)
	addToCart(t, env, token, scarce.ID, 2)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/orders", nil, token)
	require.Equal(t, http.StatusConflict, rec.Code)

	require.Equal(t, 100, productStock(t, env, plenty.ID))
	require.Equal(t, 1, productStock(t, env, scarce.ID))
	require.Len(t, getCart(t, env, token).Items, 2)

	var orderCount int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&orderCount).Error)
	require.EqualValues(t, 0, orderCount)
}

// Totals are frozen at checkout: later price changes must not leak into an
// existing order.
func TestOrderTotalsAreFrozen(t *testing.T) {
	env := newTestEnv(t)
	token, _ := login(t, env)
	adminToken, _ := loginAdmin(t, env)
	widget := seedProduct(t, env, "widget", "10.00", 10)

	addToCart(t, env, token, widget.ID, 2)
	order := checkout(t, env, token)

	recPatch := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/api/v1/admin/products/%d", widget.ID), map[string]any{
		"price": "99.99",
	}, adminToken)
	require.Equal(t, http.StatusOK, recPatch.Code)

	rec := env.doJSONRequest(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Total.Equal(decimal.RequireFromString("20.00")))
	require.Len(t, got.Items, 1)
	require.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestCancelOrderRestocks(t *testing.T) {
	env := newTestEnv(t)
	token, _ := login(t, env)
	widget := seedProduct(t, env, "widget", "10.00", 5)

	addToCart(t, env, token, widget.ID, 3)
	order := checkout(t, env, token)
	require.Equal(t, 2, productStock(t, env, widget.ID))

	rec := env.doJSONRequest(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", order.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var cancelled models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancelled))
	require.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	require.Equal(t, 5, productStock(t, env, widget.ID))

	// cancelling twice is a conflict, and stock must not grow again
	recAgain := env.doJSONRequest(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", order.ID), nil, token)
	require.Equal(t, http.StatusConflict, recAgain.Code)
	require.Equal(t, 5, productStock(t, env, widget.ID))
}

func TestOrderStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	token, _ := login(t, env)
	adminToken, _ := loginAdmin(t, env)
	widget := seedProduct(t, env, "widget", "10.00", 20)

	statusPath := func(id uint) string { return fmt.Sprintf("/api/v1/admin/orders/%d/status", id) }

	addToCart(t, env, token, widget.ID, 1)
	order := checkout(t, env, token)
	require.Equal(t, 19, productStock(t, env, widget.ID))

	// placed -> delivered skips shipping and must be refused
	recSkip := env.doJSONRequest(http.MethodPatch, statusPath(order.ID), map[string]string{
		"status": "delivered",
	}, adminToken)
	require.Equal(t, http.StatusConflict, recSkip.Code)

	// cancellation is not a fulfilment move: the status endpoint refuses it
	// even from placed, and the stock taken at checkout stays taken
	recAdminCancel := env.doJSONRequest(http.MethodPatch, statusPath(order.ID), map[string]string{
		"status": "cancelled",
	}, adminToken)
	require.Equal(t, http.StatusConflict, recAdminCancel.Code)
	require.Equal(t, 19, productStock(t, env, widget.ID))

	recShip := env.doJSONRequest(http.MethodPatch, statusPath(order.ID), map[string]string{
		"status":          "shipped",
		"tracking_number": "TRK-1",
		"carrier":         "dhl",
	}, adminToken)
	require.Equal(t, http.StatusOK, recShip.Code)

	var shipped models.Order
	require.NoError(t, json.Unmarshal(recShip.Body.Bytes(), &shipped))
	require.Equal(t, models.OrderStatusShipped, shipped.Status)
	require.Equal(t, "TRK-1", shipped.TrackingNumber)
	require.Equal(t, "dhl", shipped.Carrier)

	// a shipped order can no longer be cancelled, by its owner or by an admin
	recCancel := env.doJSONRequest(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", order.ID), nil, token)
	require.Equal(t, http.StatusConflict, recCancel.Code)
	recCancelShipped := env.doJSONRequest(http.MethodPatch, statusPath(order.ID), map[string]string{
		"status": "cancelled",
	}, adminToken)
	require.Equal(t, http.StatusConflict, recCancelShipped.Code)

	recDeliver := env.doJSONRequest(http.MethodPatch, statusPath(order.ID), map[string]string{
		"status": "delivered",
	}, adminToken)
	require.Equal(t, http.StatusOK, recDeliver.Code)

	// delivered is terminal
	recBack := env.doJSONRequest(http.MethodPatch, statusPath(order.ID), map[string]string{
		"status": "shipped",
	}, adminToken)
	require.Equal(t, http.StatusConflict, recBack.Code)

	recUnknown := env.doJSONRequest(http.MethodPatch, statusPath(order.ID), map[string]string{
		"status": "teleported",
	}, adminToken)
	require.Equal(t, http.StatusBadRequest, recUnknown.Code)

	// a cancelled order cannot re-enter fulfilment
	addToCart(t, env, token, widget.ID, 1)
	second := checkout(t, env, token)
	recCancelSecond := env.doJSONRequest(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", second.ID), nil, token)
	require.Equal(t, http.StatusOK, recCancelSecond.Code)
	recShipCancelled := env.doJSONRequest(http.MethodPatch, statusPath(second.ID), map[string]string{
		"status": "shipped",
	}, adminToken)
	require.Equal(t, http.StatusConflict, recShipCancelled.Code)

	// only admins may drive fulfilment
	recCustomer := env.doJSONRequest(http.MethodPatch, statusPath(order.ID), map[string]string{
		"status": "shipped",
	}, token)
	require.Equal(t, http.StatusForbidden, recCustomer.Code)
}

func TestGetOrderAccess(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := registerAndLogin(t, env, "owner@example.com")
	stranger, _ := registerAndLogin(t, env, "stranger@example.com")
	adminToken, _ := loginAdmin(t, env)
	widget := seedProduct(t, env, "widget", "10.00", 5)

	addToCart(t, env, owner, widget.ID, 1)
	order := checkout(t, env, owner)
	path := fmt.Sprintf("/api/v1/orders/%d", order.ID)

	recOwner := env.doJSONRequest(http.MethodGet, path, nil, owner)
	require.Equal(t, http.StatusOK, recOwner.Code)

	recStranger := env.doJSONRequest(http.MethodGet, path, nil, stranger)
	require.Equal(t, http.StatusForbidden, recStranger.Code)

	recAdmin := env.doJSONRequest(http.MethodGet, path, nil, adminToken)
	require.Equal(t, http.StatusOK, recAdmin.Code)

	recMissing := env.doJSONRequest(http.MethodGet, "/api/v1/orders/999", nil, owner)
	require.Equal(t, http.StatusNotFound, recMissing.Code)

	// a stranger must not cancel someone else's order either
	recCancel := env.doJSONRequest(http.MethodPost, path+"/cancel", nil, stranger)
	require.Equal(t, http.StatusForbidden, recCancel.Code)
}

func TestGetOrders(t *testing.T) {
	env := newTestEnv(t)
	token, _ := login(t, env)
	other, _ := registerAndLogin(t, env, "other@example.com")
	widget := seedProduct(t, env, "widget", "10.00", 50)

	for i := 0; i < 3; i++ {
		addToCart(t, env, token, widget.ID, 1)
		checkout(t, env, token)
	}
	addToCart(t, env, other, widget.ID, 1)
	checkout(t, env, other)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/orders", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Order `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 3, resp.Meta.Total)
	require.Len(t, resp.Data, 3)

	// newest first
	for i := 1; i < len(resp.Data); i++ {
		require.GreaterOrEqual(t, resp.Data[i-1].ID, resp.Data[i].ID)
	}
}

func TestCheckoutWithAddress(t *testing.T) {
	env := newTestEnv(t)
	token, _ := login(t, env)
	stranger, _ := registerAndLogin(t, env, "stranger@example.com")
	widget := seedProduct(t, env, "widget", "10.00", 5)

	recAddr := env.doJSONRequest(http.MethodPost, "/api/v1/addresses", map[string]string{
		"street": "1 Main St", "city": "Springfield", "country": "US",
	}, token)
	require.Equal(t, http.StatusCreated, recAddr.Code)
	var addr models.Address
	require.NoError(t, json.Unmarshal(recAddr.Body.Bytes(), &addr))

	addToCart(t, env, token, widget.ID, 1)
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"address_id": addr.ID,
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, addr.ID, order.AddressID)

	// another user's address id is treated as unknown
	addToCart(t, env, stranger, widget.ID, 1)
	recForeign := env.doJSONRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"address_id": addr.ID,
	}, stranger)
	require.Equal(t, http.StatusNotFound, recForeign.Code)
}
