package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smarttask/smarttask/internal/api/handler"
	"github.com/smarttask/smarttask/internal/api/middleware"
	"github.com/smarttask/smarttask/internal/core/domain"
)

// FlashCookie carries a one-shot message across a browser redirect.
const FlashCookie = "flash"

// errorResponse is the canonical error envelope for all API errors.
// Success is set to false on the AI drafting routes, whose successful
// responses carry "success": true.
type errorResponse struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
}

// draftingPrefix groups the AI drafting routes.
const draftingPrefix = "/api/"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Redirects browser navigation on 403 to the caller's task list with a flash message.
//   - Renders a consistent JSON envelope otherwise: {"error": "<message>"},
//     with "success": false added on the AI drafting routes.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if strings.HasPrefix(c.Request().URL.Path, draftingPrefix) {
			resp.Success = new(bool)
		}
		if code == http.StatusForbidden && handler.IsBrowser(c) {
			c.SetCookie(&http.Cookie{
				Name:     FlashCookie,
				Value:    url.QueryEscape(resp.Error),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			_ = c.Redirect(http.StatusSeeOther, homeFor(c))
			return
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

// homeFor is the page a rejected browser request is sent back to.
func homeFor(c echo.Context) string {
	role, _ := c.Get(middleware.CtxRole).(string)
	switch domain.Role(role) {
	case domain.RoleAdmin:
		return "/admin/tasks"
	case domain.RoleClient:
		return "/client/tasks"
	}
	return "/"
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Warn().Err(he.Internal).Str("path", c.Path()).Int("status", he.Code).Msg("request rejected")
		}
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: ve.Message, Field: ve.Field}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, errorResponse{Error: "task not found"}
	case errors.Is(err, domain.ErrAttachmentNotFound):
		return http.StatusNotFound, errorResponse{Error: "attachment not found"}
	case errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound, errorResponse{Error: "notification not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "You are not authorized to perform this action"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "Invalid email or password"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, errorResponse{Error: "Invalid status value", Field: "status"}
	case errors.Is(err, domain.ErrGeneration),
		errors.Is(err, domain.ErrTranscription),
		errors.Is(err, domain.ErrExtraction):
		log.Warn().Err(err).Str("path", c.Path()).Msg("ai backend failure")
		return http.StatusBadGateway, errorResponse{Success: new(bool), Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
