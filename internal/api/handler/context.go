package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxActor extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a non-empty username proves the
// middleware ran.
func ctxActor(c echo.Context) (username string, superuser bool, err error) {
	username, _ = c.Get("username").(string)
	if username == "" {
		return "", false, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	superuser, _ = c.Get("superuser").(bool)
	return username, superuser, nil
}
