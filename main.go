// main.go - VideoTube API server
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videotube/internal/cache"
	"videotube/internal/config"
	"videotube/internal/database"
	"videotube/internal/handlers"
	"videotube/internal/logger"
	"videotube/internal/middleware"
	"videotube/internal/repositories"
	"videotube/internal/services"
	"videotube/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "release")
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)
	if envErr != nil {
		log.Warn().Msg(".env file not found, using process environment")
	}

	gin.SetMode(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := database.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	firebaseService, err := services.NewFirebaseService(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Firebase service")
	}

	r2Client, err := storage.NewR2Client(cfg.R2Config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize R2 client")
	}

	if err := os.MkdirAll(cfg.UploadTmpDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadTmpDir).Msg("failed to create upload directory")
	}

	// The stats cache is optional
	var statsCache services.StatsCache
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, channel stats will not be cached")
		} else {
			defer rdb.Close()
			statsCache = cache.NewStatsCache(rdb, cfg.StatsCacheTTL, log)
		}
	}

	// Initialize repositories
	videoRepo := repositories.NewVideoRepository(db)
	tweetRepo := repositories.NewTweetRepository(db)
	userRepo := repositories.NewUserRepository(db)
	dashboardRepo := repositories.NewDashboardRepository(db)

	// Initialize services
	uploadService := services.NewUploadService(r2Client, cfg.MediaTimeout, log)
	videoService := services.NewVideoService(videoRepo, userRepo, uploadService, statsCache, log)
	tweetService := services.NewTweetService(tweetRepo, userRepo, log)
	dashboardService := services.NewDashboardService(dashboardRepo, statsCache)
	userService := services.NewUserService(userRepo, log)

	// Initialize handlers
	videoHandler := handlers.NewVideoHandler(videoService, handlers.NewUploadIntake(cfg.UploadTmpDir, cfg.MaxUploadBytes))
	tweetHandler := handlers.NewTweetHandler(tweetService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	userHandler := handlers.NewUserHandler()
	healthHandler := handlers.NewHealthHandler(db)

	rateLimiter := middleware.NewRateLimiter()
	go rateLimiter.Run(ctx, 5*time.Minute, 10*time.Minute)

	router := setupRouter(cfg, log, rateLimiter)
	router.GET("/health", healthHandler.Health)

	setupRoutes(router, middleware.FirebaseAuth(firebaseService, userService),
		userHandler, videoHandler, tweetHandler, dashboardHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("environment", cfg.Environment).
			Bool("stats_cache", statsCache != nil).
			Msg("VideoTube server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func setupRouter(cfg *config.Config, log zerolog.Logger, rateLimiter *middleware.RateLimiter) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))

	// Media is already compressed
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions([]string{
		".mp4", ".m4v", ".avi", ".mov", ".webm", ".mkv", ".ts", ".jpg", ".jpeg", ".png", ".webp", ".gif"})))

	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "Cache-Control"},
		ExposeHeaders: []string{
			"Content-Length",
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RateLimit(rateLimiter, middleware.DefaultRateRule))
	// A publish carries two media transfers on top of its store calls
	router.Use(middleware.RequestTimeout(cfg.RequestTimeout, cfg.RequestTimeout+2*cfg.MediaTimeout))

	// Security headers
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "SAMEORIGIN")
		c.Next()
	})

	return router
}

func setupRoutes(
	router *gin.Engine,
	auth gin.HandlerFunc,
	userHandler *handlers.UserHandler,
	videoHandler *handlers.VideoHandler,
	tweetHandler *handlers.TweetHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	api := router.Group("/api/v1")
	api.Use(auth)

	api.GET("/users/me", userHandler.GetCurrentUser)

	// ===============================
	// DASHBOARD
	// ===============================
	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/stats", dashboardHandler.GetChannelStats)
		dashboard.GET("/videos", dashboardHandler.GetChannelVideos)
	}

	// ===============================
	// TWEETS
	// ===============================
	tweets := api.Group("/tweets")
	{
		tweets.POST("", tweetHandler.CreateTweet)
		tweets.GET("/user/:userId", tweetHandler.GetUserTweets)
		tweets.PATCH("/:tweetId", tweetHandler.UpdateTweet)
		tweets.DELETE("/:tweetId", tweetHandler.DeleteTweet)
	}

	// ===============================
	// VIDEOS
	// ===============================
	videos := api.Group("/videos")
	{
		videos.GET("", videoHandler.GetAllVideos)
		videos.POST("", videoHandler.PublishVideo)
		videos.GET("/:videoId", videoHandler.GetVideoByID)
		videos.PATCH("/:videoId", videoHandler.UpdateVideo)
		videos.DELETE("/:videoId", videoHandler.DeleteVideo)
		videos.PATCH("/:videoId/publish", videoHandler.TogglePublishStatus)
		videos.PATCH("/toggle/publish/:videoId", videoHandler.TogglePublishStatus)
	}
}
