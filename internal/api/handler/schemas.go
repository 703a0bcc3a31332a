package handler

import (
	"time"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---
// Each request binds from JSON or from a urlencoded/multipart form.

type registerRequest struct {
	Username        string `json:"username"         form:"username"         validate:"max=64"`
	Email           string `json:"email"            form:"email"            validate:"omitempty,email,max=120"`
	Password        string `json:"password"         form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	Role            string `json:"role"             form:"role"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type taskRequest struct {
	Title       string `json:"title"        form:"title"        validate:"max=100"`
	Description string `json:"description"  form:"description"`
	ServiceType string `json:"service_type" form:"service_type" validate:"max=50"`
	Priority    string `json:"priority"     form:"priority"`
	ClientID    string `json:"client_id"    form:"client_id"`
	Deadline    string `json:"deadline"     form:"deadline"`
}

type listTasksQuery struct {
	Status   string `query:"status"`
	Priority string `query:"priority"`
	ClientID string `query:"client_id"`
	Search   string `query:"search"`
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

type statusRequest struct {
	Status string `json:"status" form:"status" validate:"required"`
}

type commentRequest struct {
	Content string `json:"content" form:"content"`
}

type notificationsQuery struct {
	Unread bool `query:"unread"`
	Limit  int  `query:"limit"`
}

type draftRequest struct {
	ServiceType string `json:"service_type" form:"service_type"`
	Keywords    string `json:"keywords"     form:"keywords"`
	ClientName  string `json:"client_name"  form:"client_name"`
	Priority    string `json:"priority"     form:"priority"`
}

type priorityRequest struct {
	Description  string `json:"description"   form:"description"`
	DeadlineDays string `json:"deadline_days" form:"deadline_days"`
}

type voiceTaskRequest struct {
	Audio string `json:"audio"`
}

type themeRequest struct {
	Theme string `json:"theme" form:"theme" validate:"omitempty,oneof=light dark"`
}

// --- Response types ---

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user,omitempty"`
}

type taskLinks struct {
	Self        string `json:"self"`
	Comments    string `json:"comments"`
	Attachments string `json:"attachments"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ServiceType string     `json:"service_type"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatorID   string     `json:"creator_id"`
	ClientID    string     `json:"client_id"`
	Links       taskLinks  `json:"_links"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type attachmentResponse struct {
	ID               string    `json:"id"`
	TaskID           string    `json:"task_id"`
	UserID           string    `json:"user_id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileType         string    `json:"file_type"`
	UploadedAt       time.Time `json:"uploaded_at"`
	DownloadURL      string    `json:"download_url"`
}

type taskDetailResponse struct {
	Task        taskResponse         `json:"task"`
	Comments    []commentResponse    `json:"comments"`
	Attachments []attachmentResponse `json:"attachments"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listTasksResponse struct {
	Data       []taskResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type statusChangeResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	TaskID    string `json:"task_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Changed   bool   `json:"changed"`
}

type taskFormResponse struct {
	Clients    []userResponse `json:"clients"`
	Priorities []string       `json:"priorities"`
	Statuses   []string       `json:"statuses"`
}

type notificationResponse struct {
	ID        string    `json:"id"`
	TaskID    *string   `json:"task_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type listNotificationsResponse struct {
	Data []notificationResponse `json:"data"`
}

type unreadCountResponse struct {
	Count int64 `json:"count"`
}

type adminDashboardResponse struct {
	Counts  ports.StatusCounts `json:"counts"`
	Clients []userResponse     `json:"clients"`
	Recent  []taskResponse     `json:"recent_tasks"`
	DueSoon []taskResponse     `json:"due_soon"`
}

type clientDashboardResponse struct {
	Counts        ports.StatusCounts     `json:"counts"`
	Recent        []taskResponse         `json:"recent_tasks"`
	DueSoon       []taskResponse         `json:"due_soon"`
	Notifications []notificationResponse `json:"notifications"`
}

type clientStatsResponse struct {
	Client         userResponse `json:"client"`
	TotalTasks     int64        `json:"total_tasks"`
	CompletedTasks int64        `json:"completed_tasks"`
	CompletionRate float64      `json:"completion_rate"`
}

type draftResponse struct {
	Success     bool   `json:"success"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type priorityResponse struct {
	Success  bool   `json:"success"`
	Priority string `json:"priority"`
}

type voiceTaskResponse struct {
	Success    bool                 `json:"success"`
	Transcript string               `json:"transcript"`
	TaskInfo   domain.ExtractedTask `json:"task_info"`
}

type themeResponse struct {
	Theme string `json:"theme"`
}
