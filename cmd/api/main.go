package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"crm_portal_backend/internal/auth"
	"crm_portal_backend/internal/catalog"
	"crm_portal_backend/internal/companies"
	"crm_portal_backend/internal/email"
	"crm_portal_backend/internal/events"
	apphttp "crm_portal_backend/internal/http"
	"crm_portal_backend/internal/http/router"
	"crm_portal_backend/internal/leads"
	"crm_portal_backend/internal/notification"
	"crm_portal_backend/internal/notification/outbox"
	"crm_portal_backend/internal/scheduler"
	"crm_portal_backend/platform/config"
	"crm_portal_backend/platform/db"
	"crm_portal_backend/platform/logger"
	"crm_portal_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender := newSender(cfg, log)
	val := validator.New()
	outboxRepo := outbox.New(pool)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(outboxRepo, sender, log)
	notificationModule.Subscribe(eventBus)

	catalogModule, err := catalog.NewModule(pool, cfg, log)
	if err != nil {
		log.Error("failed to initialize catalog module", "error", err)
		panic("failed to initialize catalog module: " + err.Error())
	}

	authModule := auth.NewModule(pool, cfg, val, log)
	leadsModule := leads.NewModule(pool, outboxRepo, catalogModule.Service(), eventBus, val, log)
	companiesModule := companies.NewModule(pool, log)

	// The API process also runs the outbox dispatcher so deployments without
	// a dedicated scheduler still deliver notifications.
	if cfg.RedisURL != "" {
		dispatcher, err := scheduler.NewNotificationOutboxDispatcher(cfg, pool, log)
		if err != nil {
			log.Error("failed to initialize outbox dispatcher", "error", err)
			panic("failed to initialize outbox dispatcher: " + err.Error())
		}
		defer func() { _ = dispatcher.Close() }()
		go dispatcher.Run(ctx)
	} else {
		log.Warn("REDIS_URL not configured; outbox dispatch disabled in API process")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			leadsModule,
			companiesModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func newSender(cfg *config.Config, log *logger.Logger) email.Sender {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		log.Warn("email delivery disabled; using noop sender")
		return email.NoopSender{}
	}
	return email.NewSMTPSender(cfg)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
