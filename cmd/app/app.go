package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"sownmark/internal/config"
	"sownmark/internal/database"
	handlers "sownmark/internal/handler"
	"sownmark/internal/mail"
	"sownmark/internal/metrics"
	"sownmark/internal/middleware"
	"sownmark/internal/repository"
	"sownmark/internal/service"
	"sownmark/internal/storage"
)

type Application struct {
	DB         *database.DB
	Dispatcher *mail.Dispatcher
	Limiter    *middleware.RateLimiter
	Handler    http.Handler
}

// App wires config -> DB -> MinIO -> mailer -> repositories -> services -> router.
func App(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Application, error) {
	// connection DB
	db, err := database.ConnectDB(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	bucketCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := minioClient.EnsureBucket(bucketCtx); err != nil {
		log.WithError(err).Warn("object storage bucket check failed; image uploads may fail")
	}

	mailer := mail.NewSMTPMailer(cfg.SMTP)
	dispatcher := mail.NewDispatcher(log, cfg.SMTP.Workers, cfg.SMTP.QueueSize, cfg.SMTP.SendTimeout, metrics.EmailRecorder{})

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, minioClient, mailer, dispatcher, log)
	handler := handlers.NewHandlers(services, db, cfg, log)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
	limiter.StartCleanup(ctx, time.Minute)

	return &Application{
		DB:         db,
		Dispatcher: dispatcher,
		Limiter:    limiter,
		Handler:    NewRouter(handler, services.Auth, limiter, cfg, log),
	}, nil
}

// Close drains pending emails and closes the database pool.
func (a *Application) Close() {
	a.Dispatcher.Close()
	database.MethodsDB.CloseDB(a.DB)
}
