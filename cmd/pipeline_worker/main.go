package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/cmd/pipeline_worker/handler"
	"github.com/Burhankhalid/hr-pipeline-notifications/logger"
	"github.com/Burhankhalid/hr-pipeline-notifications/metrics"
	"github.com/Burhankhalid/hr-pipeline-notifications/middlewares"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/channels"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/config"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/database"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/events"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/kafka"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/notify"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/repositories"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/templates"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/utils"
	"github.com/Burhankhalid/hr-pipeline-notifications/tracing"
)

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
	if err := database.MigrateDB(db,
		&models.Notification{},
		&models.DeliveryAttempt{},
		&models.Template{},
		&models.Event{},
		&models.Recipient{},
	); err != nil {
		logr.Fatal("failed to migrate database", zap.Error(err))
	}
	rdb := database.InitRedis(utils.GetEnvDefault("REDIS_ADDR", "localhost:6379"))

	metrics.InitWorkerMetrics()
	shutdownTracer := tracing.InitTracer("pipeline-worker", logr)
	defer shutdownTracer()
	tracer := otel.Tracer("pipeline-worker")

	broker := utils.GetEnv("KAFKA_BROKER")
	logr.Info("Kafka broker resolved", zap.String("broker", broker))

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

	templateRepo := repositories.NewTemplateRepository(db)
	engine := templates.NewEngine(templateRepo, logr)

	notificationRepo := repositories.NewNotificationRepository(db)
	attemptRepo := repositories.NewDeliveryAttemptRepository(db)
	eventRepo := repositories.NewEventRepository(db)

	producer := kafka.NewProducer([]string{broker})
	defer producer.Close()
	delayed := kafka.NewDelayedProducer(producer, cfg.Kafka.RetryTopic)

	scheduler := notify.NewScheduler(cfg.Retry.MaxRetries, cfg.Backoff(), delayed, logr)
	dispatcher := notify.NewDispatcher(registry, notificationRepo, attemptRepo, scheduler, logr)
	builder := notify.NewBuilder(engine, templateRepo, registry, logr)
	service := notify.NewService(builder, notificationRepo, dispatcher, logr)

	router := events.NewRouter()
	router.Register("candidate.", events.NewApplicationHandler(service, logr))
	router.Register("interview", events.NewInterviewHandler(service, logr))
	router.Register("offer", events.NewOfferHandler(service, logr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleShutdown(cancel, logr)

	eventsConsumer := kafka.NewConsumer([]string{broker}, cfg.Kafka.EventsTopic, cfg.Kafka.GroupID)
	defer eventsConsumer.Close()

	consumer := handler.NewConsumer(eventsConsumer, router, eventRepo, tracer, cfg.Kafka.Prefetch, logr)
	go consumer.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if err := http.ListenAndServe(":3002", middlewares.MetricsMiddleware(mux)); err != nil {
		logr.Fatal("metrics server failed", zap.Error(err))
	}
}

func handleShutdown(cancel context.CancelFunc, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	cancel()
}
