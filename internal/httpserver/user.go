package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vmkazarin/online_store/internal/logging"
	"github.com/vmkazarin/online_store/internal/service"
	"github.com/vmkazarin/online_store/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.me")

	userID, err := callerID(c)
	if err != nil {
		return err
	}

	user, err := h.Svc.Me(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("me_error", "status", 404, "reason", "user not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("me_error", "status", 500, "reason", "cannot load user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load user")
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) PatchMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.patch_me")

	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_me_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateMe(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("patch_me_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("patch_me_error", "status", 404, "reason", "user not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("patch_me_error", "status", 500, "reason", "cannot update user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update user")
	}

	l.Info("patch_me_success", "user_id", userID)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeactivateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.deactivate_me")

	userID, err := callerID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("deactivate_error", "status", 404, "reason", "user not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("deactivate_error", "status", 500, "reason", "cannot deactivate user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot deactivate user")
	}

	l.Info("deactivate_success", "user_id", userID)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHTTP) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_role")

	targetID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_role_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateRole(ctx, targetID, req.Role); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_role_error", "status", 400, "reason", "unknown role", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("update_role_error", "status", 404, "reason", "user not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("update_role_error", "status", 500, "reason", "cannot update role", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update role")
	}

	l.Info("update_role_success", "user_id", targetID, "role", req.Role)
	return c.NoContent(http.StatusNoContent)
}
