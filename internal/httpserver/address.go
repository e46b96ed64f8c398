package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vmkazarin/online_store/internal/logging"
	"github.com/vmkazarin/online_store/internal/service"
	"github.com/vmkazarin/online_store/internal/transport"
)

type AddressHTTP struct {
	Svc *service.AddressService
}

func (h *AddressHTTP) GetAddresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.get_addresses")

	userID, err := callerID(c)
	if err != nil {
		return err
	}

	addresses, err := h.Svc.List(ctx, userID)
	if err != nil {
		l.Error("get_addresses_error", "status", 500, "reason", "cannot list addresses", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list addresses")
	}

	return c.JSON(http.StatusOK, addresses)
}

func (h *AddressHTTP) CreateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.create_address")

	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req transport.CreateAddressRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_address_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	addr, err := h.Svc.Create(ctx, userID, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_address_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_address_error", "status", 500, "reason", "cannot create address", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create address")
	}

	l.Info("create_address_success", "address_id", addr.ID)
	return c.JSON(http.StatusCreated, addr)
}

func (h *AddressHTTP) PatchAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.patch_address")

	userID, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.PatchAddressRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_address_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	addr, err := h.Svc.Patch(ctx, userID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("patch_address_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("patch_address_error", "status", 404, "reason", "address not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "address not found")
		}
		l.Error("patch_address_error", "status", 500, "reason", "cannot update address", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update address")
	}

	l.Info("patch_address_success", "address_id", id)
	return c.JSON(http.StatusOK, addr)
}

func (h *AddressHTTP) DeleteAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete_address")

	userID, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_address_error", "status", 404, "reason", "address not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "address not found")
		}
		l.Error("delete_address_error", "status", 500, "reason", "cannot delete address", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete address")
	}

	l.Info("delete_address_success", "address_id", id)
	return c.NoContent(http.StatusNoContent)
}
