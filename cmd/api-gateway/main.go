package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ower-flow/sms-be/api/swagger"
	"github.com/ower-flow/sms-be/internal/handler"
	internalmiddleware "github.com/ower-flow/sms-be/internal/middleware"
	"github.com/ower-flow/sms-be/internal/repository"
	"github.com/ower-flow/sms-be/internal/service"
	"github.com/ower-flow/sms-be/pkg/cache"
	"github.com/ower-flow/sms-be/pkg/config"
	"github.com/ower-flow/sms-be/pkg/database"
	"github.com/ower-flow/sms-be/pkg/logger"
	corsmiddleware "github.com/ower-flow/sms-be/pkg/middleware/cors"
	reqidmiddleware "github.com/ower-flow/sms-be/pkg/middleware/requestid"
)

// @title SMS Auth API
// @version 1.0.0
// @description Tenant-aware authentication gateway for the school management system
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, throttling and tenant cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	attemptRepo := repository.NewLoginAttemptRepository(redisClient)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authService := service.NewAuthService(userRepo, schoolRepo, teacherRepo, attemptRepo, metricsService, validate, logr, service.AuthConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessExpiry:   cfg.JWT.AccessExpiry,
		RefreshExpiry:  cfg.JWT.RefreshExpiry,
		ThrottleLimit:  cfg.Throttle.LoginLimit,
		ThrottleWindow: cfg.Throttle.LoginWindow,
	})
	tenantService := service.NewTenantService(tenantRepo, schoolRepo, cacheRepo, config.TenantCacheTTL, metricsService, logr)
	teacherService := service.NewTeacherService(teacherRepo, userRepo, validate, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsService))
	r.Use(internalmiddleware.Tenant(tenantService, logr))

	r.GET("/health", handler.Health())
	r.GET("/ready", handler.Ready(db, redisClient))

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, authService, teacherService)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
