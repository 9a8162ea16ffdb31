package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/config"
	"alfredoptarigan/ai-interview-platform/internal/handlers"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
	"alfredoptarigan/ai-interview-platform/internal/services"
)

const sessionDrainTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	// Canceled on shutdown; live sessions and the worker watch it.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := config.InitRedis(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer rdb.Close()
	log.Info("✅ Redis connected successfully", zap.String("address", cfg.Redis.Address))

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	applicantRepo := repositories.NewApplicantRepository(db)
	cvRepo := repositories.NewCVRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	log.Info("✅ Repositories initialized successfully")

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MediaPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	ai, err := setupAI(ctx, cfg, log)
	if err != nil {
		return err
	}

	// Speech
	var tts services.TextToSpeech = ai.speech
	if cfg.Speech.TTSCacheTTL > 0 {
		tts = services.NewCachedTextToSpeech(ai.speech, rdb, cfg.Speech.TTSCacheTTL, cfg.Gemini.Voice, log)
	}

	var stt services.SpeechToText = ai.speech
	if cfg.Speech.STTProvider == "whisper" {
		stt = services.NewWhisperClient(cfg.Speech.WhisperURL, cfg.Speech.WhisperAPIKey, cfg.Speech.WhisperModel, nil)
	}
	log.Info("✅ Speech initialized", zap.String("stt_provider", cfg.Speech.STTProvider))

	// CV pipeline
	processor := services.NewCVProcessor(
		cvRepo,
		applicantRepo,
		jobRepo,
		ai.gemini,
		ai.knowledge,
		ai.pdf,
		cfg.Interview.QuestionCount,
		cfg.Worker.RetryMaxAttempts,
		log,
	)

	worker := services.NewWorker(
		cvRepo,
		processor,
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
		cfg.Worker.PollInterval,
		log,
	)
	worker.Start(ctx)
	log.Info("✅ Worker started successfully", zap.Int("concurrency", cfg.Worker.Concurrency))

	// Interviews
	authService := services.NewAuthService(userRepo, rdb, cfg.Auth.TokenTTL, cfg.Auth.AdminEmails, log)
	interviewService := services.NewInterviewService(interviewRepo, applicantRepo, userRepo, jobRepo, cvRepo, tts, log)
	orchestrator := services.NewInterviewOrchestrator(
		interviewRepo,
		interviewService,
		services.NewSessionLocker(rdb, cfg.Interview.LockTTL, log),
		tts,
		stt,
		services.NewAnswerEvaluator(ai.gemini, cfg.Worker.RetryMaxAttempts, log),
		storageService,
		cfg.Interview,
		log,
	)

	h := &handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService, log),
		User:      handlers.NewUserHandler(userRepo),
		Job:       handlers.NewJobHandler(jobRepo, ai.knowledge, log),
		Applicant: handlers.NewApplicantHandler(applicantRepo, jobRepo, userRepo, cvRepo, interviewRepo, log),
		CV:        handlers.NewCVHandler(applicantRepo, cvRepo, storageService, worker, cfg.Storage.MaxFileSize, log),
		Interview: handlers.NewInterviewHandler(applicantRepo, interviewService, log),
		Speech:    handlers.NewSpeechHandler(applicantRepo, interviewService, stt, int64(cfg.Interview.MaxAnswerBytes), log),
		Live:      handlers.NewLiveHandler(ctx, applicantRepo, interviewService, orchestrator, log),
	}
	log.Info("✅ Handlers initialized")

	var limiter *services.LimiterManager
	if cfg.RateLimit.Enabled {
		limiter = services.NewLimiterManager(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		defer limiter.Close()
	}

	app := fiber.New(fiber.Config{
		AppName:      "AI Interview Platform API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(max(cfg.Storage.MaxFileSize, int64(cfg.Interview.MaxAnswerBytes))) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, h, authService, limiter, log)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		cancel()
		worker.Stop()
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// Sessions release their Redis locks on the way out; rdb closes after.
	if !h.Live.Wait(sessionDrainTimeout) {
		log.Warn("⚠️  Live sessions still open at shutdown", zap.Duration("waited", sessionDrainTimeout))
	}
	log.Info("✅ Server stopped")
	return nil
}
