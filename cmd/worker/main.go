package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clientportal/config"
	contractmq "clientportal/contracts/mq"
	"clientportal/internal/mqhandler"
	"clientportal/internal/notify"
	"clientportal/internal/repository"
	"clientportal/pkg/db"
	pkgconfig "clientportal/pkg/config"
	"clientportal/pkg/logger"
	"clientportal/pkg/metrics"
	"clientportal/pkg/mq"
	"clientportal/pkg/otel"
)

const notificationQueue = "notification.requested.q"

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

	log.Info("Starting notification worker...", zap.String("exchange", cfg.MQ.Exchange))

	// Submission log
	var recorder notify.SubmissionRecorder = notify.NopRecorder{}
	if cfg.DB.Enabled {
		dbConn, err := db.NewConnection(cfg.DB, log)
		if err != nil {
			log.Fatal("Failed to init DB", zap.Error(err))
		}
		defer dbConn.Close()

		if err := db.Migrate(context.Background(), dbConn); err != nil {
			log.Fatal("Failed to migrate DB", zap.Error(err))
		}
		recorder = repository.NewSubmissionLogRepository(dbConn)
	}

	// Dead letter publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	client := notify.NewEmailJSClient(notify.EmailJSConfig{
		Endpoint:    cfg.Notification.EmailJS.Endpoint,
		PublicKey:   cfg.Notification.EmailJS.PublicKey,
		AccessToken: cfg.Notification.EmailJS.AccessToken,
		Timeout:     cfg.EmailJSTimeout(),
	}, nil, log)

	h := mqhandler.NewNotificationRequestedHandler(client, recorder, log)

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		notificationQueue,
		contractmq.RoutingKeyNotificationRequested,
		log,
	)
	if err != nil {
		log.Fatal("Failed to init consumer", zap.Error(err))
	}
	defer consumer.Close()

	consumer.SetHandler(h.Handle)
	consumer.SetDeadLetter(publisher)

	go func() {
		if err := consumer.StartConsuming(); err != nil {
			log.Fatal("Notification consumer failed", zap.Error(err))
		}
	}()

	// Health and metrics
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", metrics.Handler())

	addr := pkgconfig.GetEnv("WORKER_HEALTH_ADDR", ":8081")
	srv := &http.Server{Addr: addr, Handler: engine}
	go func() {
		log.Info("Health server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Health server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down notification worker...")
	consumer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Health server shutdown error", zap.Error(err))
	}

	log.Info("Notification worker shutdown complete")
}
