package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

// DraftingHandler exposes the AI helpers used while writing tasks.
type DraftingHandler struct {
	service ports.DraftingService
}

func NewDraftingHandler(service ports.DraftingService) *DraftingHandler {
	return &DraftingHandler{service: service}
}

// GenerateDescription handles POST /api/generate-task-description.
//
// @Summary      Draft a task title and description
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      draftRequest  true  "Service type and keywords"
// @Success      200   {object}  draftResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/generate-task-description [post]
func (h *DraftingHandler) GenerateDescription(c echo.Context) error {
	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	draft, err := h.service.DraftTaskDescription(c.Request().Context(), ports.DraftInput{
		ServiceType: req.ServiceType,
		Keywords:    req.Keywords,
		ClientName:  req.ClientName,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draftResponse{Success: true, Title: draft.Title, Description: draft.Description})
}

// AnalyzePriority handles POST /api/analyze-priority.
//
// @Summary      Suggest a priority for a task description
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      priorityRequest  true  "Description and optional days to deadline"
// @Success      200   {object}  priorityResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/analyze-priority [post]
func (h *DraftingHandler) AnalyzePriority(c echo.Context) error {
	var req priorityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Description) == "" {
		return &domain.ValidationError{Field: "description", Message: "Task description is required"}
	}

	priority := h.service.SuggestPriority(c.Request().Context(), req.Description, deadlineDays(req.DeadlineDays))
	return c.JSON(http.StatusOK, priorityResponse{Success: true, Priority: string(priority)})
}

// VoiceTask handles POST /api/voice-task.
//
// @Summary      Extract task fields from a spoken command
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      voiceTaskRequest  true  "Base64 audio or data URL"
// @Success      200   {object}  voiceTaskResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/voice-task [post]
func (h *DraftingHandler) VoiceTask(c echo.Context) error {
	var req voiceTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Audio) == "" {
		return &domain.ValidationError{Field: "audio", Message: "No audio data provided"}
	}

	result, err := h.service.ExtractTaskFromSpeech(c.Request().Context(), req.Audio)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, voiceTaskResponse{Success: true, Transcript: result.Transcript, TaskInfo: result.TaskInfo})
}

// deadlineDays keeps the value only when it is a plain non-negative integer.
func deadlineDays(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
