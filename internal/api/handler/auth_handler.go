package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// bindValid binds the request into req and runs the struct validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	})
	if err != nil {
		return err
	}

	resp := toUserResponse(user)
	return c.JSON(http.StatusCreated, authResponse{User: &resp})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	resp := toUserResponse(user)
	return c.JSON(http.StatusOK, authResponse{Token: token, User: &resp})
}

// Logout revokes the presented token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	tokenID, expiresAt := tokenFrom(c)
	if err := h.authService.Logout(c.Request().Context(), tokenID, expiresAt); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "You have been logged out."})
}

// TaskForm returns what the admin task form needs.
//
// @Summary      Task form options
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  taskFormResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/tasks/form [get]
func (h *AuthHandler) TaskForm(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	clients, err := h.authService.ListClients(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	resp := taskFormResponse{
		Clients:    toUserResponses(clients),
		Priorities: []string{string(domain.PriorityLow), string(domain.PriorityMedium), string(domain.PriorityHigh)},
	}
	for _, s := range domain.TaskStatuses {
		resp.Statuses = append(resp.Statuses, string(s))
	}
	return c.JSON(http.StatusOK, resp)
}
