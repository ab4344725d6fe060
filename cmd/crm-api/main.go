package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yated-center/yated-crm-api/internal/handler"
	"github.com/yated-center/yated-crm-api/internal/repository"
	"github.com/yated-center/yated-crm-api/internal/service"
	"github.com/yated-center/yated-crm-api/internal/sheets"
	"github.com/yated-center/yated-crm-api/pkg/cache"
	"github.com/yated-center/yated-crm-api/pkg/config"
	"github.com/yated-center/yated-crm-api/pkg/logger"
	corsmiddleware "github.com/yated-center/yated-crm-api/pkg/middleware/cors"
	metricsmiddleware "github.com/yated-center/yated-crm-api/pkg/middleware/metrics"
	reqidmiddleware "github.com/yated-center/yated-crm-api/pkg/middleware/requestid"
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	metricsSvc := service.NewMetricsService()

	store, err := sheets.NewClient(ctx, cfg.Sheets, logr)
	if err != nil {
		logr.Sugar().Fatalw("sheets client failed", "error", err)
	}
	store.SetObserver(metricsSvc)

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, table cache disabled", "error", err)
			redisClient = nil
		}
	}

	tables := repository.NewTableRepository(store, redisClient, cfg.Cache.TTL, logr, metricsSvc)
	meta := repository.NewMetaRepository(tables, cfg.Tables.Meta)

	tabNames := []string{
		cfg.Tables.Participants,
		cfg.Tables.Staff,
		cfg.Tables.ParticipantAttendance,
		cfg.Tables.StaffAttendance,
		cfg.Tables.Payments,
		cfg.Tables.StaffBackup,
		cfg.Tables.StaffBackupSummary,
		cfg.Tables.Meta,
	}
	if err := tables.Ensure(ctx, tabNames); err != nil {
		logr.Sugar().Fatalw("worksheet bootstrap failed", "error", err)
	}

	participantRules := service.NewParticipantRules(cfg.Rules)
	staffRules := service.NewStaffRules(cfg.Rules)
	paymentRules := service.NewPaymentRules(cfg.Rules)

	handlers := handler.Handlers{
		Participants: handler.NewParticipantHandler(
			service.NewParticipantService(tables, participantRules, cfg.Tables.Participants, logr, time.Now)),
		Staff: handler.NewStaffHandler(
			service.NewStaffService(tables, meta, staffRules, cfg.Tables, cfg.Rules.TransportationOptions, logr, time.Now)),
		Attendance: handler.NewAttendanceHandler(
			service.NewAttendanceService(tables, participantRules, cfg.Tables, logr, time.Now)),
		Payments: handler.NewPaymentHandler(
			service.NewPaymentService(tables, paymentRules, cfg.Tables, logr)),
		Tables:  handler.NewTableHandler(service.NewTableService(tables, logr)),
		Metrics: handler.NewMetricsHandler(metricsSvc),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metricsmiddleware.New(metricsSvc))

	r.GET("/health", handlers.Metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		if _, err := tables.List(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", handlers.Metrics.Prometheus)

	handlers.Register(r.Group(cfg.APIPrefix))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
