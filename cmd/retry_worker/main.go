package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Burhankhalid/hr-pipeline-notifications/logger"
	"github.com/Burhankhalid/hr-pipeline-notifications/metrics"
	"github.com/Burhankhalid/hr-pipeline-notifications/middlewares"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/channels"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/config"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/database"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/kafka"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/notify"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/repositories"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/utils"
	"github.com/Burhankhalid/hr-pipeline-notifications/tracing"
)

type retryMessage struct {
	NotificationID string `json:"notificationId"`
}

func main() {
	_ = godotenv.Load()

	logr, err := logger.InitLogger()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	defer logr.Sync()

	cfg, err := config.LoadConfig(utils.GetEnvDefault("CONFIG_PATH", "config.yaml"))
	if err != nil {
		logr.Fatal("failed to load config", zap.Error(err))
	}

	db, err := database.InitDB(utils.GetEnv("DATABASE_DSN"))
	if err != nil {
		logr.Fatal("failed to initialize database", zap.Error(err))
	}
	rdb := database.InitRedis(utils.GetEnvDefault("REDIS_ADDR", "localhost:6379"))

	metrics.InitWorkerMetrics()
	shutdownTracer := tracing.InitTracer("retry-worker", logr)
	defer shutdownTracer()

	broker := utils.GetEnv("KAFKA_BROKER")

	mailer, err := cfg.BuildMailer()
	if err != nil {
		logr.Fatal("failed to build mailer", zap.Error(err))
	}
	sender, err := cfg.BuildSender()
	if err != nil {
		logr.Fatal("failed to build sms sender", zap.Error(err))
	}

	recipients := repositories.NewRecipientRepository(db)
	registry := channels.NewRegistry(
		channels.NewEmailChannel(mailer, recipients, cfg.Email.From, logr),
		channels.NewInAppChannel(rdb, logr),
		channels.NewSMSChannel(sender, recipients, logr),
	)

	notificationRepo := repositories.NewNotificationRepository(db)
	attemptRepo := repositories.NewDeliveryAttemptRepository(db)

	producer := kafka.NewProducer([]string{broker})
	defer producer.Close()
	delayed := kafka.NewDelayedProducer(producer, cfg.Kafka.RetryTopic)

	scheduler := notify.NewScheduler(cfg.Retry.MaxRetries, cfg.Backoff(), delayed, logr)
	dispatcher := notify.NewDispatcher(registry, notificationRepo, attemptRepo, scheduler, logr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleShutdown(cancel, logr)

	consumer := kafka.NewConsumer([]string{broker}, cfg.Kafka.RetryTopic, cfg.Kafka.GroupID+"-retry")
	defer consumer.Close()

	go run(ctx, consumer, notificationRepo, dispatcher, logr)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if err := http.ListenAndServe(":3003", middlewares.MetricsMiddleware(mux)); err != nil {
		logr.Fatal("metrics server failed", zap.Error(err))
	}
}

// run holds each retry message until its delay elapses, then redispatches
// the notification. Per-partition ordering makes this safe: delays grow
// monotonically with retry count, so waiting on the head never starves a
// message behind it for longer than its own delay.
func run(ctx context.Context, consumer *kafka.Consumer, repo *repositories.NotificationRepository, dispatcher *notify.Dispatcher, logr *zap.Logger) {
	for {
		m, err := consumer.Read(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logr.Error("read retry message", zap.Error(err))
			continue
		}

		due := m.Time.Add(kafka.MessageDelay(m))
		if wait := time.Until(due); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return
			}
		}

		var msg retryMessage
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			logr.Error("malformed retry message", zap.ByteString("raw", m.Value), zap.Error(err))
			continue
		}
		id, err := uuid.Parse(msg.NotificationID)
		if err != nil {
			logr.Error("invalid notification id in retry message", zap.String("raw", msg.NotificationID))
			continue
		}

		n, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logr.Warn("retry for unknown notification", zap.String("notification_id", id.String()))
				continue
			}
			logr.Error("load notification for retry", zap.String("notification_id", id.String()), zap.Error(err))
			continue
		}
		if n.Terminal() {
			logr.Info("skipping retry for settled notification",
				zap.String("notification_id", id.String()),
				zap.String("status", n.Status),
			)
			continue
		}

		if err := dispatcher.Dispatch(ctx, n); err != nil {
			logr.Error("redispatch notification", zap.String("notification_id", id.String()), zap.Error(err))
		}
	}
}

func handleShutdown(cancel context.CancelFunc, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	cancel()
}
