package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	HandleAdminMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleSetTaskStatus(c *gin.Context)
	HandleAddComment(c *gin.Context)
	HandleGetAssignableUsers(c *gin.Context)

	HandleGetTimeline(c *gin.Context)
	HandleGetSummary(c *gin.Context)
	HandleGetUpcoming(c *gin.Context)
	HandleNotifyOverdue(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	sessions services.SessionService
	tasks    services.TaskService
	reports  services.ReportService
	users    services.UserRepository
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	taskService services.TaskService,
	reportService services.ReportService,
	users services.UserRepository,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		sessions: sessionService,
		tasks:    taskService,
		reports:  reportService,
		users:    users,
	}
}
