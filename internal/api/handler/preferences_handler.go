package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	themeCookie    = "theme"
	themeCookieTTL = 30 * 24 * time.Hour
	defaultTheme   = "light"
)

type PreferencesHandler struct{}

func NewPreferencesHandler() *PreferencesHandler {
	return &PreferencesHandler{}
}

// Theme handles POST /preferences/theme.
//
// @Summary      Store the UI theme preference
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        body  body      themeRequest  true  "light or dark"
// @Success      200   {object}  themeResponse
// @Success      303
// @Failure      400   {object}  errorResponse
// @Router       /preferences/theme [post]
func (h *PreferencesHandler) Theme(c echo.Context) error {
	var req themeRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	theme := req.Theme
	if theme == "" {
		theme = defaultTheme
	}

	c.SetCookie(&http.Cookie{
		Name:     themeCookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   int(themeCookieTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if IsBrowser(c) {
		return c.Redirect(http.StatusSeeOther, localReferer(c))
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: theme})
}

// localReferer returns the path of the referring page on this site, or "/".
func localReferer(c echo.Context) string {
	u, err := url.Parse(c.Request().Referer())
	if err != nil || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	if u.Host != "" && u.Host != c.Request().Host {
		return "/"
	}
	u.Scheme, u.Host, u.User = "", "", nil
	return u.RequestURI()
}
