package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

const dateLayout = "2006-01-02"

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /admin/tasks.
//
// @Summary      Create a task for a client
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      taskRequest  true  "Task details"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req taskRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	task, err := h.service.CreateTask(c.Request().Context(), actor, toTaskInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaskResponse(task, actor.Role))
}

// Update handles PUT /admin/tasks/:id.
//
// @Summary      Edit a task
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Task ID"
// @Param        body  body      taskRequest  true  "Task details"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req taskRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	task, err := h.service.UpdateTask(c.Request().Context(), actor, c.Param("id"), toTaskInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task, actor.Role))
}

// Delete handles DELETE /admin/tasks/:id.
//
// @Summary      Delete a task with its comments and attachments
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTask(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Task deleted successfully!"})
}

// Get handles GET /admin/tasks/:id and GET /client/tasks/:id.
//
// @Summary      Get a task with its comments and attachments
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  taskDetailResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/tasks/{id} [get]
// @Router       /client/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetTask(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskDetailResponse(detail, actor.Role))
}

// List handles GET /admin/tasks and GET /client/tasks.
//
// @Summary      List the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "pending, in-progress or completed"
// @Param        priority   query     string  false  "low, medium or high"
// @Param        client_id  query     string  false  "Assigned client (admin only)"
// @Param        search     query     string  false  "Substring of title or description"
// @Param        date_from  query     string  false  "Created on or after (YYYY-MM-DD)"
// @Param        date_to    query     string  false  "Created on or before (YYYY-MM-DD)"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Page size (default 50, max 100)"
// @Success      200        {object}  listTasksResponse
// @Failure      400        {object}  errorResponse
// @Router       /admin/tasks [get]
// @Router       /client/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var q listTasksQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	in := ports.ListTasksInput{
		Status:   q.Status,
		Priority: q.Priority,
		ClientID: q.ClientID,
		Search:   q.Search,
		Page:     q.Page,
		Limit:    q.Limit,
	}
	if in.DateFrom, err = parseDate("date_from", q.DateFrom); err != nil {
		return err
	}
	if in.DateTo, err = parseDate("date_to", q.DateTo); err != nil {
		return err
	}
	if !in.DateTo.IsZero() {
		// inclusive of the whole day
		in.DateTo = in.DateTo.Add(24*time.Hour - time.Nanosecond)
	}

	result, err := h.service.ListTasks(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListTasksResponse(result, actor.Role))
}

// UpdateStatus handles POST /client/tasks/:id/status.
//
// @Summary      Move an assigned task to another status
// @Tags         client
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Task ID"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  statusChangeResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /client/tasks/{id}/status [post]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	change, err := h.service.UpdateStatus(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusChangeResponse{
		Success:   true,
		Message:   "Task status updated to " + string(change.NewStatus),
		TaskID:    change.Task.ID,
		OldStatus: string(change.OldStatus),
		NewStatus: string(change.NewStatus),
		Changed:   change.Changed,
	})
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Message: "Invalid date, expected YYYY-MM-DD"}
	}
	return t, nil
}
