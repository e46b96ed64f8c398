package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/vmkazarin/online_store/internal/middleware/auth"
)

// callerID reads the authenticated user's id that the auth middleware stored
// in the request context.
func callerID(c echo.Context) (uint, error) {
	s, ok := c.Get(authmw.CtxUserID).(string)
	if !ok || s == "" {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid user identity")
	}
	return uint(id), nil
}

func callerRole(c echo.Context) string {
	role, _ := c.Get(authmw.CtxRole).(string)
	return role
}

func parseID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return uint(v), nil
}
