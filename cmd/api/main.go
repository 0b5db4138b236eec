package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/smartattend/attendance-api/api/swagger"
	"github.com/smartattend/attendance-api/internal/handler"
	"github.com/smartattend/attendance-api/internal/middleware"
	"github.com/smartattend/attendance-api/internal/repository"
	"github.com/smartattend/attendance-api/internal/service"
	"github.com/smartattend/attendance-api/pkg/cache"
	"github.com/smartattend/attendance-api/pkg/config"
	"github.com/smartattend/attendance-api/pkg/database"
	"github.com/smartattend/attendance-api/pkg/jobs"
	"github.com/smartattend/attendance-api/pkg/logger"
	"github.com/smartattend/attendance-api/pkg/mailer"
	corsmiddleware "github.com/smartattend/attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/smartattend/attendance-api/pkg/middleware/requestid"
)

// @title SmartAttend Attendance API
// @version 1.0.0
// @description Employee attendance, leave and tour tracking backend
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	metricsSvc := service.NewMetricsService()

	employeeRepo := repository.NewEmployeeRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	weekendRepo := repository.NewWeekendConfigRepository(db)
	leaveRepo := repository.NewLeaveRepository(db).WithObserver(metricsSvc.ObserveDBQuery)
	tourRepo := repository.NewTourRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	clock := service.NewOfficeClock(cfg.Office)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)
	calendarSvc := service.NewCalendarService(holidayRepo, weekendRepo, validate, logr)
	leaveSvc := service.NewLeaveService(leaveRepo, calendarSvc, cfg.Leave.AnnualPaidLeaves, validate, logr)
	tourSvc := service.NewTourService(tourRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, clock, logr)
	directorySvc := service.NewDirectoryService(employeeRepo, logr)

	mail := mailer.NewLogMailer(logr)
	reportSvc := service.NewReportService(employeeRepo, attendanceRepo, cacheRepo, nil, mail, clock, metricsSvc, cfg.Reports, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reportQueue := jobs.NewQueue("reports", reportSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	reportQueue.Start(ctx)
	defer reportQueue.Stop()
	reportSvc.SetQueue(reportQueue)

	if cfg.Reports.Enabled {
		scheduler := service.NewReportScheduler(reportSvc, clock, cfg.Office.EndHour, cfg.Office.EndMinute, logr)
		scheduler.Start(ctx)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.RegisterRoutes(api, handler.Handlers{
		Calendar:   handler.NewCalendarHandler(calendarSvc),
		Leave:      handler.NewLeaveHandler(leaveSvc, metricsSvc),
		Tour:       handler.NewTourHandler(tourSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Report:     handler.NewReportHandler(reportSvc),
		Directory:  handler.NewDirectoryHandler(directorySvc),
	}, tokenSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logr.Sugar().Warnw("shutdown error", "error", err)
	}
}
