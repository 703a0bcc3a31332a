package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/smarttask/smarttask/docs"
	"github.com/smarttask/smarttask/internal/api/handler"
	"github.com/smarttask/smarttask/internal/api/middleware"
	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

// Deps are the services and settings the router wires into handlers.
type Deps struct {
	Auth          ports.AuthService
	Tasks         ports.TaskService
	Dashboards    ports.DashboardService
	Comments      ports.CommentService
	Attachments   ports.AttachmentService
	Notifications ports.NotificationService
	Drafting      ports.DraftingService

	Revocations middleware.RevocationChecker
	Probes      []handler.Probe

	JWTSecret   string
	MaxBodySize string
	Log         zerolog.Logger
	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	metricsConfig := echoprometheus.MiddlewareConfig{Subsystem: "smarttask"}
	metricsHandler := echoprometheus.NewHandler()
	if d.Registry != nil {
		metricsConfig.Registerer = d.Registry
		metricsHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry})
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig))
	if d.MaxBodySize != "" {
		e.Use(echomiddleware.BodyLimit(d.MaxBodySize))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	taskHandler := handler.NewTaskHandler(d.Tasks)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboards)
	collabHandler := handler.NewCollaborationHandler(d.Comments, d.Attachments)
	notificationHandler := handler.NewNotificationHandler(d.Notifications)
	draftingHandler := handler.NewDraftingHandler(d.Drafting)
	preferencesHandler := handler.NewPreferencesHandler()

	authn := middleware.Auth(d.JWTSecret, d.Revocations)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	clientOnly := middleware.RBAC(domain.RoleClient)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authn)

	// --- Admin ---
	admin := e.Group("/admin", authn, adminOnly)
	admin.GET("/dashboard", dashboardHandler.Admin)
	admin.GET("/clients", dashboardHandler.Clients)
	admin.GET("/tasks", taskHandler.List)
	admin.POST("/tasks", taskHandler.Create)
	admin.GET("/tasks/form", authHandler.TaskForm)
	admin.GET("/tasks/:id", taskHandler.Get)
	admin.PUT("/tasks/:id", taskHandler.Update)
	admin.DELETE("/tasks/:id", taskHandler.Delete)

	// --- Client ---
	client := e.Group("/client", authn, clientOnly)
	client.GET("/dashboard", dashboardHandler.Client)
	client.GET("/tasks", taskHandler.List)
	client.GET("/tasks/:id", taskHandler.Get)
	client.POST("/tasks/:id/status", taskHandler.UpdateStatus)

	// --- Either participant; ownership is checked by the services ---
	e.POST("/tasks/:id/comments", collabHandler.AddComment, authn)
	e.POST("/tasks/:id/attachments", collabHandler.Upload, authn)
	e.GET("/download/:filename", collabHandler.Download, authn)

	notifications := e.Group("/notifications", authn)
	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.POST("/:id/read", notificationHandler.MarkRead)

	// --- AI helpers ---
	ai := e.Group("/api", authn, adminOnly)
	ai.POST("/generate-task-description", draftingHandler.GenerateDescription)
	ai.POST("/analyze-priority", draftingHandler.AnalyzePriority)
	ai.POST("/voice-task", draftingHandler.VoiceTask)

	e.POST("/preferences/theme", preferencesHandler.Theme)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Probes...)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", metricsHandler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger feeds echo's request logger into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
