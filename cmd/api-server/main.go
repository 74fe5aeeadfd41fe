package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"rateme/database"
	"rateme/internal/cache"
	"rateme/internal/config"
	"rateme/internal/genai"
	"rateme/internal/httpapi/handler"
	"rateme/internal/httpapi/middleware"
	"rateme/internal/httpapi/repository"
	"rateme/internal/httpapi/service"
	"rateme/internal/mailer"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	// Connect to the database and run migrations
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)

	// Optional Redis cache for lecturer stats
	var statsCache *cache.StatsCache
	if cfg.RedisURL != "" {
		statsCache, err = cache.NewStatsCache(cfg.RedisURL, cfg.RedisPassword, cfg.StatsCacheTTL)
		if err != nil {
			logger.Warn("stats cache unavailable, serving uncached", "error", err)
			statsCache = nil
		}
	}

	// Email transport: SendGrid when configured, console otherwise
	var mail mailer.Mailer
	if cfg.SendGridAPIKey != "" {
		mail = mailer.NewSendgridMailer(cfg.SendGridAPIKey, cfg.AppName, cfg.FromEmail)
	} else {
		logger.Info("SENDGRID_API_KEY not set, email goes to the log")
		mail = mailer.NewConsoleMailer(logger)
	}

	// Text-completion client: nil means the suggestion feature reports
	// itself as not configured
	var completionClient service.CompletionClient
	if cfg.AIConfigured() {
		completionClient = genai.NewClient(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		logger.Info("GEMINI_API_KEY not set, AI suggestions disabled")
	}

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	courseService := service.NewCourseService(courseRepo)
	notificationService := service.NewNotificationService(mail, cfg.DashboardURL, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, courseRepo, userRepo, notificationService, statsCache, logger)
	statsService := service.NewStatsService(feedbackRepo, statsCache, logger)
	suggestionService := service.NewSuggestionService(suggestionRepo, feedbackRepo, userRepo, completionClient, notificationService, logger)
	profileService := service.NewProfileService(userRepo, cfg.UserDataPath, cfg.MaxProfileImageSize, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	courseHandler := handler.NewCourseHandler(courseService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, courseService, userRepo)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService)
	dashboardHandler := handler.NewDashboardHandler(courseService, feedbackService, statsService, suggestionService)
	reportHandler := handler.NewReportHandler(feedbackService, statsService, userRepo)
	profileHandler := handler.NewProfileHandler(profileService)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/check-conn", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})

	api := r.Group("/api")
	authHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.AuthMiddleware(authService))
	courseHandler.RegisterRoutes(protected)
	feedbackHandler.RegisterRoutes(protected)
	suggestionHandler.RegisterRoutes(protected)
	dashboardHandler.RegisterRoutes(protected)
	reportHandler.RegisterRoutes(protected)
	profileHandler.RegisterRoutes(protected)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.HTTPPort)
	logger.Info("server running", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelDebug
	switch cfg.LogLevel {
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
