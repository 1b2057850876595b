package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/dutyops/duty-roster-api/api/swagger"
	"github.com/dutyops/duty-roster-api/internal/handler"
	"github.com/dutyops/duty-roster-api/internal/middleware"
	"github.com/dutyops/duty-roster-api/internal/models"
	"github.com/dutyops/duty-roster-api/internal/repository"
	"github.com/dutyops/duty-roster-api/internal/service"
	"github.com/dutyops/duty-roster-api/pkg/cache"
	"github.com/dutyops/duty-roster-api/pkg/config"
	"github.com/dutyops/duty-roster-api/pkg/database"
	"github.com/dutyops/duty-roster-api/pkg/logger"
	corsmiddleware "github.com/dutyops/duty-roster-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dutyops/duty-roster-api/pkg/middleware/requestid"
)

// @title Duty Roster API
// @version 1.0.0
// @description Rotating on-call duty schedule with overrides, suspension and statistics
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("connect redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories.
	people := repository.NewPersonRepository(db)
	records := repository.NewDutyRecordRepository(db)
	settings := repository.NewSystemConfigRepository(db)
	users := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Services.
	validate := validator.New()
	hub := service.NewEventHub(cfg.Events, cacheRepo, logr)
	go hub.Run(ctx)

	scheduleSvc := service.NewScheduleService(people, records, settings, cacheRepo, hub, cfg, validate, logr)
	assignSvc := service.NewAssignmentService(people, records, settings, scheduleSvc, hub, cfg, validate, logr)
	rosterSvc := service.NewRosterService(people, scheduleSvc, hub, validate, logr)
	statsSvc := service.NewStatsService(people, records, settings, cacheRepo, cfg, logr)
	authSvc := service.NewAuthService(users, cfg, validate, logr)
	exportSvc := service.NewExportService(scheduleSvc, validate, logr)

	router := buildRouter(cfg, logr, scheduleSvc, assignSvc, rosterSvc, statsSvc, authSvc, exportSvc, hub)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildRouter(
	cfg *config.Config,
	logr *zap.Logger,
	scheduleSvc *service.ScheduleService,
	assignSvc *service.AssignmentService,
	rosterSvc *service.RosterService,
	statsSvc *service.StatsService,
	authSvc *service.AuthService,
	exportSvc *service.ExportService,
	hub *service.EventHub,
) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, logr)
	assignmentHandler := handler.NewAssignmentHandler(assignSvc, logr)
	personHandler := handler.NewPersonHandler(rosterSvc, logr)
	statsHandler := handler.NewStatsHandler(statsSvc, logr)
	authHandler := handler.NewAuthHandler(authSvc, logr)
	eventsHandler := handler.NewEventsHandler(hub, logr)
	exportHandler := handler.NewExportHandler(exportSvc, logr)

	api := r.Group(cfg.APIPrefix)

	// Public read surface.
	api.GET("/schedule", scheduleHandler.Snapshot)
	api.GET("/schedule/calendar", scheduleHandler.Calendar)
	api.GET("/schedule/today", scheduleHandler.Today)
	api.GET("/schedule/config", scheduleHandler.GetConfig)
	api.GET("/people", personHandler.List)
	api.GET("/people/:id", personHandler.Get)
	api.GET("/stats", statsHandler.Stats)
	api.GET("/events", eventsHandler.Stream)
	api.GET("/export/schedule", exportHandler.Schedule)
	api.POST("/auth/login", middleware.Audit(authSvc), authHandler.Login)

	// Mutations require a valid token and leave an audit trail.
	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.Use(middleware.Audit(authSvc))

	protected.POST("/assignments", assignmentHandler.Assign)
	protected.POST("/assignments/swap", assignmentHandler.Swap)
	protected.POST("/assignments/replace", assignmentHandler.Replace)
	protected.POST("/assignments/suspend", assignmentHandler.Suspend)
	protected.DELETE("/assignments/:date", assignmentHandler.Resume)
	protected.DELETE("/assignments", assignmentHandler.RemoveMany)
	protected.POST("/assignments/generate", assignmentHandler.Generate)
	protected.POST("/assignments/cleanup", assignmentHandler.Cleanup)

	protected.POST("/people", personHandler.Create)
	protected.PUT("/people/:id", personHandler.Update)
	protected.POST("/people/:id/move", personHandler.Move)
	protected.DELETE("/people/:id", middleware.RequireRole(models.RoleAdmin), personHandler.Delete)

	protected.PUT("/schedule/config", middleware.RequireRole(models.RoleAdmin), scheduleHandler.UpdateConfig)
	protected.GET("/audit-logs", middleware.RequireRole(models.RoleAdmin), authHandler.AuditLogs)

	return r
}
