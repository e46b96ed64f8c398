package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vmkazarin/online_store/internal/logging"
	"github.com/vmkazarin/online_store/internal/service"
	"github.com/vmkazarin/online_store/internal/transport"
)

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get_wishlist")

	userID, err := callerID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.List(ctx, userID)
	if err != nil {
		l.Error("get_wishlist_error", "status", 500, "reason", "cannot load wishlist", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load wishlist")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *WishlistHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add_item")

	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req transport.AddWishlistRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_wishlist_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Add(ctx, userID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("add_wishlist_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("add_wishlist_error", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_wishlist_error", "status", 500, "reason", "cannot add to wishlist", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add to wishlist")
	}

	l.Info("add_wishlist_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, item)
}

func (h *WishlistHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove_item")

	userID, err := callerID(c)
	if err != nil {
		return err
	}
	productID, err := parseID(c, "product_id")
	if err != nil {
		return err
	}

	if err := h.Svc.Remove(ctx, userID, productID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("remove_wishlist_error", "status", 404, "reason", "not in wishlist", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product is not in the wishlist")
		}
		l.Error("remove_wishlist_error", "status", 500, "reason", "cannot remove from wishlist", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot remove from wishlist")
	}

	l.Info("remove_wishlist_success", "product_id", productID)
	return c.NoContent(http.StatusNoContent)
}
