package handler

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

// CollaborationHandler serves comments and attachments on tasks.
type CollaborationHandler struct {
	comments    ports.CommentService
	attachments ports.AttachmentService
}

func NewCollaborationHandler(comments ports.CommentService, attachments ports.AttachmentService) *CollaborationHandler {
	return &CollaborationHandler{comments: comments, attachments: attachments}
}

// AddComment handles POST /tasks/:id/comments.
//
// @Summary      Comment on a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Task ID"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  commentResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /tasks/{id}/comments [post]
func (h *CollaborationHandler) AddComment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	comment, err := h.comments.AddComment(c.Request().Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// Upload handles POST /tasks/:id/attachments.
//
// @Summary      Attach a file to a task
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Task ID"
// @Param        file  formData  file    true  "File"
// @Success      201   {object}  attachmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /tasks/{id}/attachments [post]
func (h *CollaborationHandler) Upload(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return &domain.ValidationError{Field: "file", Message: "No file part"}
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	attachment, err := h.attachments.Upload(c.Request().Context(), actor, c.Param("id"), ports.UploadInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Content:     f,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAttachmentResponse(attachment))
}

// Download handles GET /download/:filename.
//
// @Summary      Download an attachment
// @Tags         tasks
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        filename  path  string  true  "Stored filename"
// @Success      200
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /download/{filename} [get]
func (h *CollaborationHandler) Download(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	dl, err := h.attachments.Download(c.Request().Context(), actor, c.Param("filename"))
	if err != nil {
		return err
	}
	defer dl.Content.Close()

	contentType := dl.Attachment.FileType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": dl.Attachment.OriginalFilename}))
	return c.Stream(http.StatusOK, contentType, dl.Content)
}
