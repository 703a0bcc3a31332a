package handler

import (
	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

// --- Request → Service input ---

func toTaskInput(req taskRequest) ports.TaskInput {
	return ports.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		ServiceType: req.ServiceType,
		Priority:    req.Priority,
		ClientID:    req.ClientID,
		Deadline:    req.Deadline,
	}
}

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// taskBasePath is where the actor reads a task.
func taskBasePath(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "/admin/tasks/"
	}
	return "/client/tasks/"
}

func toTaskResponse(t *domain.Task, role domain.Role) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		ServiceType: t.ServiceType,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
		CreatorID:   t.CreatorID,
		ClientID:    t.ClientID,
		Links: taskLinks{
			Self:        taskBasePath(role) + t.ID,
			Comments:    "/tasks/" + t.ID + "/comments",
			Attachments: "/tasks/" + t.ID + "/attachments",
		},
	}
	if t.Deadline != nil {
		d := t.Deadline.UTC()
		resp.Deadline = &d
	}
	return resp
}

func toTaskResponses(tasks []*domain.Task, role domain.Role) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t, role))
	}
	return out
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		TaskID:    c.TaskID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func toAttachmentResponse(a *domain.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:               a.ID,
		TaskID:           a.TaskID,
		UserID:           a.UserID,
		Filename:         a.Filename,
		OriginalFilename: a.OriginalFilename,
		FileType:         a.FileType,
		UploadedAt:       a.UploadedAt.UTC(),
		DownloadURL:      "/download/" + a.Filename,
	}
}

func toTaskDetailResponse(d *ports.TaskDetail, role domain.Role) taskDetailResponse {
	resp := taskDetailResponse{
		Task:        toTaskResponse(d.Task, role),
		Comments:    make([]commentResponse, 0, len(d.Comments)),
		Attachments: make([]attachmentResponse, 0, len(d.Attachments)),
	}
	for _, c := range d.Comments {
		resp.Comments = append(resp.Comments, toCommentResponse(c))
	}
	for _, a := range d.Attachments {
		resp.Attachments = append(resp.Attachments, toAttachmentResponse(a))
	}
	return resp
}

func toListTasksResponse(r *ports.ListTasksResult, role domain.Role) listTasksResponse {
	return listTasksResponse{
		Data: toTaskResponses(r.Items, role),
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		TaskID:    n.TaskID,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC(),
	}
}

func toNotificationResponses(ns []*domain.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNotificationResponse(n))
	}
	return out
}
