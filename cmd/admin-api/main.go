package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/nlcorner/admin-api/api/swagger"
	"github.com/nlcorner/admin-api/internal/handler"
	internalmiddleware "github.com/nlcorner/admin-api/internal/middleware"
	"github.com/nlcorner/admin-api/internal/repository"
	"github.com/nlcorner/admin-api/internal/service"
	"github.com/nlcorner/admin-api/pkg/cache"
	"github.com/nlcorner/admin-api/pkg/config"
	"github.com/nlcorner/admin-api/pkg/database"
	"github.com/nlcorner/admin-api/pkg/logger"
	corsmiddleware "github.com/nlcorner/admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/nlcorner/admin-api/pkg/middleware/requestid"
	"github.com/nlcorner/admin-api/pkg/storage"
)

// @title Nurse Learning Corner Admin API
// @version 1.0.0
// @description Administrative REST API for the Nurse Learning Corner dashboard
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	bucket, err := storage.NewLocalBucket(cfg.Content.StorageDir)
	if err != nil {
		logr.Fatal("failed to init content storage", zap.Error(err))
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close() //nolint:errcheck
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	} else {
		cacheRepo = repository.NewMemoryCacheRepository()
	}
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Overview.CacheTTL, logr, true)

	accountRepo := repository.NewAccountRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	accessCodeRepo := repository.NewAccessCodeRepository(db)
	contentRepo := repository.NewContentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifier := service.NewNotifier(notificationRepo, service.NotifierConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
	}, logr)
	notifier.Start(ctx)
	defer notifier.Stop()

	sessionCache := service.NewSessionCache(cfg.Session.CacheTTL)
	authService := service.NewAuthService(accountRepo, adminRepo, sessionCache, validate, logr, service.AuthConfig{
		Secret:      cfg.Session.Secret,
		TokenExpiry: cfg.Session.TokenExpiry,
		Issuer:      cfg.Session.Issuer,
	})

	studentService := service.NewStudentService(profileRepo, subscriptionRepo, logr)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, validate, logr)
	accessCodeService := service.NewAccessCodeService(accessCodeRepo, subscriptionRepo, notifier, validate, logr)
	adminService := service.NewAdminService(adminRepo, authService, validate, logr)
	contentService := service.NewContentService(contentRepo, bucket, notifier, validate, logr, &service.ContentServiceConfig{
		NormalizeYearOfStudy: cfg.Content.NormalizeYearOfStudy,
	})
	notificationService := service.NewNotificationService(notificationRepo, validate, logr)
	overviewService := service.NewOverviewService(profileRepo, subscriptionRepo, contentRepo, accessCodeRepo, cacheService, logr, &service.OverviewServiceConfig{
		CacheTTL: cfg.Overview.CacheTTL,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsService))
	r.Use(internalmiddleware.WithResponseMeta())

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authService, cfg.Session),
		Students:      handler.NewStudentHandler(studentService),
		AccessCodes:   handler.NewAccessCodeHandler(accessCodeService, cfg.Export.MaxRows),
		Admins:        handler.NewAdminHandler(adminService),
		Content:       handler.NewContentHandler(contentService, cfg.Content.MaxUpload),
		Subscriptions: handler.NewSubscriptionHandler(subscriptionService),
		Notifications: handler.NewNotificationHandler(notificationService),
		Overview:      handler.NewOverviewHandler(overviewService),
		Metrics:       handler.NewMetricsHandler(metricsService),
	}
	requireAdmin := internalmiddleware.RequireAdmin(authService, cfg.Session.CookieName)
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, requireAdmin)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
