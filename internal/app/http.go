package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/config"
	v1 "github.com/adanyl0v/go-task-tracker/internal/delivery/http/v1"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT

	userRepo := repository.NewUserRepository(globalPostgresPool)
	taskRepo := repository.NewTaskRepository(globalPostgresPool)
	commentRepo := repository.NewCommentRepository(globalPostgresPool)
	sessionRepo := repository.NewSessionRepository(globalPostgresPool)

	authService := services.NewAuthService(
		globalLogger,
		userRepo,
		sessionRepo,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
		jwtCfg.RefreshTokenTTL,
	)
	sessionService := services.NewSessionService(globalLogger, sessionRepo)
	taskService := services.NewTaskService(globalLogger, taskRepo, userRepo, commentRepo, globalMailDispatcher)
	reportService := services.NewReportService(globalLogger, taskRepo, globalMailDispatcher)

	v1Handler := v1.New(
		globalLogger,
		authService,
		sessionService,
		taskService,
		reportService,
		userRepo,
	)
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", v1Handler.HandleLogin)
	authRouter.POST("/refresh", v1Handler.HandleRefresh)
	authRouter.POST("/register", v1Handler.HandleRegister)
	authRouter.POST("/logout", v1Handler.HandleAuthMiddleware, v1Handler.HandleLogout)

	taskRouter := router.Group("/tasks", v1Handler.HandleAuthMiddleware)
	taskRouter.GET("", v1Handler.HandleGetTasks)
	taskRouter.POST("", v1Handler.HandleAdminMiddleware, v1Handler.HandleCreateTask)
	taskRouter.GET("/:id", v1Handler.HandleGetTask)
	taskRouter.PATCH("/:id/status", v1Handler.HandleSetTaskStatus)
	taskRouter.POST("/:id/comments", v1Handler.HandleAddComment)

	userRouter := router.Group("/users", v1Handler.HandleAuthMiddleware)
	userRouter.GET("/assignable", v1Handler.HandleAdminMiddleware, v1Handler.HandleGetAssignableUsers)

	reportRouter := router.Group("/reports", v1Handler.HandleAuthMiddleware)
	reportRouter.GET("/timeline", v1Handler.HandleGetTimeline)
	reportRouter.GET("/summary", v1Handler.HandleGetSummary)
	reportRouter.GET("/upcoming", v1Handler.HandleGetUpcoming)
	reportRouter.POST("/notify-overdue", v1Handler.HandleAdminMiddleware, v1Handler.HandleNotifyOverdue)
}
