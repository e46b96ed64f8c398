package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vmkazarin/online_store/internal/logging"
	"github.com/vmkazarin/online_store/internal/service"
	"github.com/vmkazarin/online_store/internal/transport"
	"github.com/vmkazarin/online_store/internal/util"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

// Checkout converts the caller's cart into an order. Conflicts are reported
// with the offending product so the client can adjust the cart.
func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Checkout(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("checkout_error", "status", 400, "reason", "empty cart", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("checkout_error", "status", 404, "reason", "missing product or address", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrConflict):
			l.Warn("checkout_error", "status", 409, "reason", "insufficient stock", "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		l.Error("checkout_error", "status", 500, "reason", "cannot place order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot place order")
	}

	l.Info("checkout_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	userID, err := callerID(c)
	if err != nil {
		return err
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		l.Error("get_orders_error", "status", 500, "reason", "cannot list orders", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": util.Meta(page, limit, offset, total),
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, err := callerID(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(ctx, userID, callerRole(c), orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("get_order_error", "status", 404, "reason", "order not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrForbidden):
			l.Warn("get_order_error", "status", 403, "reason", "foreign order", "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "you don't have access to this order")
		}
		l.Error("get_order_error", "status", 500, "reason", "cannot load order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load order")
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	userID, err := callerID(c)
	if err != nil {
		return err
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.Cancel(ctx, userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("cancel_order_error", "status", 404, "reason", "order not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrForbidden):
			l.Warn("cancel_order_error", "status", 403, "reason", "foreign order", "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "you don't have access to this order")
		case errors.Is(err, service.ErrConflict):
			l.Warn("cancel_order_error", "status", 409, "reason", "not cancellable", "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		l.Error("cancel_order_error", "status", 500, "reason", "cannot cancel order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot cancel order")
	}

	l.Info("cancel_order_success", "order_id", orderID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, orderID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_status_error", "status", 400, "reason", "unknown status", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("update_status_error", "status", 404, "reason", "order not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrConflict):
			l.Warn("update_status_error", "status", 409, "reason", "illegal transition", "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		l.Error("update_status_error", "status", 500, "reason", "cannot update order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update order")
	}

	l.Info("update_status_success", "order_id", orderID, "new_status", order.Status)
	return c.JSON(http.StatusOK, order)
}
