package main

import (
	"context"
	"log"
	"time"

	"absensi/config"
	"absensi/constants"
	"absensi/controllers"
	"absensi/docs"
	"absensi/jobs"
	"absensi/middleware"
	"absensi/routes"
	"absensi/services"
	"absensi/services/logger"
	"absensi/services/notification"
	"absensi/utils"
)

// @title                       Absensi API
// @version                     1.0
// @description                 Daily check-in and check-out attendance service.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	config.LoadEnv()
	cfg := config.LoadAppConfig()

	appLogger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	if cfg.SecretKey == "" {
		log.Fatalf("SECRET_KEY_ACCESS_TOKEN is required")
	}

	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Invalid APP_TIMEZONE %q: %v", cfg.Timezone, err)
	}

	router, m, c := config.InitApp(cfg, loc, appLogger)

	var (
		attendanceStore services.AttendanceStore
		userStore       services.UserStore
	)
	switch cfg.Store {
	case config.StoreMemory:
		memory := services.NewMemoryStore()
		attendanceStore, userStore = memory, memory
		appLogger.Info("using in-memory store, data is lost on restart")
	case config.StorePostgres:
		db, err := config.ConnectDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect database: %v", err)
		}
		attendanceStore = services.NewGormAttendanceStore(db)
		userStore = services.NewGormUserStore(db)
	default:
		log.Fatalf("Unknown STORE %q", cfg.Store)
	}

	var (
		cache   services.Cache
		flusher services.AttendanceFlusher
	)
	rdb, err := config.ConnectRedis(context.Background())
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if rdb != nil {
		redisCache := services.NewRedisCache(rdb)
		cache, flusher = redisCache, redisCache
	} else {
		appLogger.Info("REDIS_ADDR not set, list cache disabled")
	}

	var uploader services.PhotoUploader
	cld, err := config.ConnectCloudinary(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Cloudinary: %v", err)
	}
	if cld != nil {
		uploader = services.NewCloudinaryUploader(cld)
	} else {
		appLogger.Info("CLOUDINARY_URL not set, selfie upload disabled")
	}

	notifier := notification.NewMelodyService(m)
	tokens := services.NewTokenManager(cfg.SecretKey, services.AccessTokenTTL)

	attendanceService := services.NewAttendanceService(services.AttendanceServiceOptions{
		Store:    attendanceStore,
		Clock:    utils.SystemClock{},
		Location: loc,
		Logger:   appLogger,
		Cache:    cache,
		Notifier: notifier,
	})
	authService := services.NewAuthService(services.AuthServiceOptions{
		Users:          userStore,
		Tokens:         tokens,
		Logger:         appLogger,
		GoogleClientID: cfg.GoogleClientID,
	})

	if email, password := config.GetEnv("ADMIN_EMAIL"), config.GetEnv("ADMIN_PASSWORD"); email != "" && password != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := authService.EnsureAdmin(ctx, config.GetEnv("ADMIN_NAME"), email, password); err != nil {
			log.Fatalf("Failed to create admin account: %v", err)
		}
		cancel()
	}

	jobs.SetDailyRecapper(services.NewAttendanceRecapAdapter(attendanceService, notifier, flusher, appLogger))
	if err := jobs.InitCronJobs(c); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	// Admin only: feed messages name users.
	config.InitWebSocket(router, m, middleware.AuthMiddleware(tokens, constants.RoleAdmin))

	docs.SwaggerInfo.BasePath = "/api/v1"
	routes.SetupRoutes(router, routes.Dependencies{
		Attendance: controllers.NewAttendanceController(attendanceService, uploader, appLogger),
		Auth:       controllers.NewAuthController(authService, tokens, cfg.SecureCookie),
		Tokens:     tokens,
		EnableDocs: cfg.Env != "prod",
	})

	appLogger.Info("Server starting on port %s (timezone %s)", cfg.Port, loc)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLogger(cfg config.AppConfig) (logger.Logger, error) {
	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.LogDir == "" {
		return logger.NewDefaultLogger(level), nil
	}
	return logger.NewFileLogger(cfg.LogDir, level)
}
