package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smarttask/smarttask/internal/api/middleware"
	"github.com/smarttask/smarttask/internal/core/domain"
)

// actorFrom extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: both the user id and
// a known role must be present.
func actorFrom(c echo.Context) (domain.Actor, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	if userID == "" || role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	actor := domain.Actor{UserID: userID, Role: domain.Role(role)}
	if !actor.Role.Valid() {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token carries an unknown role")
	}
	return actor, nil
}

// tokenFrom returns the id and expiry of the token that authenticated c.
func tokenFrom(c echo.Context) (string, time.Time) {
	id, _ := c.Get(middleware.CtxTokenID).(string)
	exp, _ := c.Get(middleware.CtxTokenExpires).(time.Time)
	return id, exp
}

// IsAjax reports whether the request was sent from script rather than by
// browser navigation.
func IsAjax(c echo.Context) bool {
	return c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// IsBrowser reports whether the request comes from page navigation, which
// expects redirects rather than JSON failures.
func IsBrowser(c echo.Context) bool {
	if IsAjax(c) {
		return false
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
