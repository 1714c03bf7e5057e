package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"clientportal/config"
	"clientportal/internal/handler"
	"clientportal/internal/httpserver"
	"clientportal/internal/notify"
	"clientportal/internal/progress"
	"clientportal/internal/proposal"
	"clientportal/internal/repository"
	"clientportal/internal/seed"
	"clientportal/internal/session"
	"clientportal/pkg/db"
	"clientportal/pkg/logger"
	"clientportal/pkg/mq"
	"clientportal/pkg/otel"
	"clientportal/pkg/outbox"
	"clientportal/pkg/redis"
	"clientportal/pkg/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("Failed to load config", zap.Error(err))
	}

	log := logger.NewLogger(cfg.Server.Mode)
	defer log.Sync()

	shutdownTracing, err := otel.Setup(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to init tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Error("Failed to flush traces", zap.Error(err))
		}
	}()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	log.Info("Starting client portal...",
		zap.String("session_backend", cfg.Session.Backend),
		zap.String("notification_backend", cfg.Notification.Backend),
	)

	// Seed data
	data, err := seed.Load(log)
	if err != nil {
		log.Fatal("Failed to load seed data", zap.Error(err))
	}

	store := progress.NewStore(data.Progress, log)
	catalog := proposal.NewCatalog(data.Proposals)
	gate := session.NewGate(data.Accounts, log)

	checks := map[string]httpserver.ReadinessCheck{}

	// Redis
	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to init Redis", zap.Error(err))
		}
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// Session slots
	var slots session.SlotStore
	if cfg.Session.Backend == "redis" {
		slots = session.NewRedisSlots(rdb, cfg.Session.KeyPrefix, cfg.SessionTTL())
	} else {
		slots = session.NewMemorySlots(cfg.SessionTTL())
	}

	// Submission dedupe
	var deduper util.Deduper
	if window := cfg.DedupeWindow(); window > 0 {
		if rdb != nil {
			deduper = util.NewRedisDeduper(rdb, window, log)
		} else {
			deduper = util.NewMemoryDeduper(window)
		}
	}

	// Submission log
	var recorder notify.SubmissionRecorder = notify.NopRecorder{}
	var dbConn *pgxpool.Pool
	if cfg.DB.Enabled {
		dbConn, err = db.NewConnection(cfg.DB, log)
		if err != nil {
			log.Fatal("Failed to init DB", zap.Error(err))
		}
		defer dbConn.Close()

		if err := db.Migrate(context.Background(), dbConn); err != nil {
			log.Fatal("Failed to migrate DB", zap.Error(err))
		}
		recorder = repository.NewSubmissionLogRepository(dbConn)
		checks["db"] = dbConn.Ping
	}

	// Outbound email
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var sender notify.Sender
	if cfg.Notification.Backend == "queue" {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatal("Failed to init MQ publisher", zap.Error(err))
		}
		defer publisher.Close()

		if dbConn != nil {
			outboxRepo := outbox.NewRepository(dbConn)
			sender = repository.NewOutboxSender(dbConn, outboxRepo)
			dispatcher := outbox.NewDispatcher(outboxRepo, publisher, log).
				WithMaxRetries(cfg.Outbox.MaxRetries).
				WithBatchSize(cfg.Outbox.BatchSize).
				WithInterval(cfg.OutboxInterval())
			go dispatcher.Start(bgCtx)
		} else {
			sender = notify.NewQueueSender(publisher)
		}
	} else {
		sender = notify.NewEmailJSClient(notify.EmailJSConfig{
			Endpoint:    cfg.Notification.EmailJS.Endpoint,
			PublicKey:   cfg.Notification.EmailJS.PublicKey,
			AccessToken: cfg.Notification.EmailJS.AccessToken,
			Timeout:     cfg.EmailJSTimeout(),
		}, nil, log)
	}

	notifier := notify.NewService(notify.Config{
		TeamName:              cfg.Notification.TeamName,
		ServiceID:             cfg.Notification.EmailJS.ServiceID,
		ChangeRequestTemplate: cfg.Notification.EmailJS.ChangeRequestTemplate,
		ProposalTemplate:      cfg.Notification.EmailJS.ProposalTemplate,
	}, sender, store, deduper, recorder, log)

	// Router
	router := httpserver.NewRouter(httpserver.Handlers{
		Auth:      handler.NewAuthHandler(gate, slots, cfg.JWT.Secret, cfg.TokenTTL(), log),
		Dashboard: handler.NewDashboardHandler(store, catalog),
		Progress:  handler.NewProgressHandler(store, log),
		Proposal:  handler.NewProposalHandler(catalog, notifier),
		Request:   handler.NewRequestHandler(notifier),
	}, gate, slots, cfg.JWT.Secret, checks)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down client portal...")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("Client portal shutdown complete")
}
