package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cyberacademy/internal/api/v1/router"
	"cyberacademy/internal/cache"
	"cyberacademy/internal/config"
	"cyberacademy/internal/database"
	"cyberacademy/internal/logger"
	"cyberacademy/internal/mailer"
	"cyberacademy/internal/media"
	"cyberacademy/internal/pubsub"
	"cyberacademy/internal/repository"
	"cyberacademy/internal/repository/memory"
	"cyberacademy/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// repositories is the storage backend the services run on.
type repositories struct {
	tx          repository.TxManager
	courses     repository.CourseRepository
	blog        repository.BlogRepository
	contact     repository.ContactRepository
	users       repository.UserRepository
	enrollments repository.EnrollmentRepository
	milestones  repository.MilestoneRepository
}

func main() {
	logger := logger.New()

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx := context.Background()
	var closers []func() error

	// 2. Storage
	repos, db, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open storage")
	}
	if db != nil {
		closers = append(closers, db.Close)
	}
	if err := database.Seed(ctx, database.Catalog{
		Courses:    repos.courses,
		Milestones: repos.milestones,
		Blog:       repos.blog,
	}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed catalog")
	}

	// 3. Optional integrations
	var courseCache service.CourseCache
	if cfg.RedisAddr != "" {
		c, err := cache.NewCourseCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, course cache disabled")
		} else {
			courseCache = c
			closers = append(closers, c.Close)
		}
	}

	var images service.ImageSigner
	if cfg.S3Bucket != "" {
		p, err := media.NewPresigner(ctx, media.Options{
			Endpoint:  cfg.S3URL,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Expiry:    cfg.S3URLExpiry,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create S3 presigner")
		}
		images = p
	}

	var publisher pubsub.Publisher = pubsub.NewLogPublisher(logger)
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create Pub/Sub publisher")
		}
		publisher = p
		closers = append(closers, p.Close)
	}

	m := mailer.NewLogMailer(logger)
	if cfg.SendGridAPIKey != "" {
		m = mailer.NewSendGridMailer(cfg.SendGridAPIKey, "CyberAcademy", cfg.FromEmail, logger)
	}

	// 4. Services
	validate := validator.New(validator.WithRequiredStructEnabled())
	enrollments := service.NewEnrollmentService(repos.enrollments, repos.courses, repos.users, publisher, cfg.PubSubEnrollmentTopic, logger)
	processor := service.NewStripeProcessor(cfg.StripeSecretKey, cfg.StripeWebhookSecret, logger)

	handler := router.New(cfg, router.Services{
		Catalog:     service.NewCatalogService(repos.courses, repos.enrollments, courseCache, images, logger),
		Enrollments: enrollments,
		Payments:    service.NewPaymentService(processor, enrollments, cfg.StripePublishableKey, logger),
		Progress:    service.NewProgressService(repos.tx, repos.milestones, repos.users, repos.enrollments, logger),
		Users:       service.NewUserService(repos.users, cfg.JWTSecret, validate, logger),
		Blog:        service.NewBlogService(repos.blog, images, logger),
		Contact:     service.NewContactService(repos.contact, m, cfg.ContactNotifyEmail, validate, logger),
	}, logger)

	// 5. Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("storage", cfg.StorageDriver).Msgf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s\n", err)
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn().Err(err).Msg("Failed to release resource")
		}
	}
	logger.Info().Msg("Server shut down gracefully")
}

func openStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repositories, *sql.DB, error) {
	if cfg.StorageDriver == config.StorageMemory {
		store := memory.New()
		logger.Info().Msg("Using in-memory storage")
		return repositories{
			tx:          store,
			courses:     store,
			blog:        store,
			contact:     store,
			users:       store,
			enrollments: store,
			milestones:  store,
		}, nil, nil
	}

	db, err := database.Open(ctx, cfg.DBConnectionString, cfg.Environment, logger)
	if err != nil {
		return repositories{}, nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return repositories{}, nil, err
		}
		logger.Info().Msg("Database schema applied")
	}
	return repositories{
		tx:          repository.NewTxManager(db),
		courses:     repository.NewCourseRepo(db),
		blog:        repository.NewBlogRepo(db),
		contact:     repository.NewContactRepo(db),
		users:       repository.NewUserRepo(db),
		enrollments: repository.NewEnrollmentRepo(db),
		milestones:  repository.NewMilestoneRepo(db),
	}, db, nil
}
