package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medtracker/internal/config"
	"medtracker/internal/handler"
	"medtracker/internal/metrics"
	"medtracker/internal/middleware"
	"medtracker/internal/realtime"
	"medtracker/internal/repository"
	"medtracker/internal/service"
	"medtracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	config.SetupLogging(cfg.LogLevel, cfg.LogFormat)
	metrics.Register()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(ctx, dbPool); err != nil {
		logrus.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	medRepo := repository.NewMedicationRepository(dbPool)
	logRepo := repository.NewMedicationLogRepository(dbPool)

	// --- Real-time notifier ---
	hub := realtime.NewHub()
	var publisher realtime.Publisher = hub
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logrus.Fatalf("Failed to connect to redis at %s: %v", cfg.RedisAddr, err)
		}
		relay := realtime.NewRedisRelay(rdb, hub)
		go relay.Run(ctx)
		publisher = relay
		logrus.WithField("addr", cfg.RedisAddr).Info("Real-time events relayed through redis")
	}

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil)
	medService := service.NewMedicationService(medRepo, logRepo, publisher, cfg.AdherenceWindowDays, nil)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	medHandler := handler.NewMedicationHandler(medService)
	realtimeHandler := handler.NewRealtimeHandler(hub)
	healthHandler := handler.NewHealthHandler(dbPool)

	// --- Setup Gin Router ---
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logrus.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLog(),
		middleware.Prometheus(),
		middleware.CORS(),
	)

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	wsAuthMW := middleware.WebSocketAuthMiddleware(jwtUtil)
	authLimiter := middleware.NewIPRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst)
	go authLimiter.RunJanitor(ctx, time.Minute, 10*time.Minute)

	// --- Register Routes ---
	root := router.Group("")
	authHandler.RegisterAuthRoutes(root, authLimiter.Middleware())
	medHandler.RegisterMedicationRoutes(root, jwtAuthMW)
	realtimeHandler.RegisterRealtimeRoutes(root, wsAuthMW)

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logrus.Infof("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
	hub.Close()
	stop()

	logrus.Info("Server exiting")
}
