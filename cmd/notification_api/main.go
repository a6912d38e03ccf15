package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/cmd/notification_api/app/routes"
	"github.com/Burhankhalid/hr-pipeline-notifications/logger"
	"github.com/Burhankhalid/hr-pipeline-notifications/metrics"
	"github.com/Burhankhalid/hr-pipeline-notifications/middlewares"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/config"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/database"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/kafka"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/repositories"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/templates"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/utils"
	"github.com/Burhankhalid/hr-pipeline-notifications/tracing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	logr, err := logger.InitLogger()
	if err != nil {
		panic("Failed to initialize zap logger: " + err.Error())
	}
	logr.Info("Logger initialized")

	cfg, err := config.LoadConfig(utils.GetEnvDefault("CONFIG_PATH", "config.yaml"))
	if err != nil {
		logr.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := database.InitDB(utils.GetEnv("DATABASE_DSN"))
	if err != nil {
		logr.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.MigrateDB(db,
		&models.Notification{},
		&models.DeliveryAttempt{},
		&models.Template{},
		&models.Event{},
		&models.Recipient{},
	); err != nil {
		logr.Fatal("Failed to migrate database", zap.Error(err))
	}
	rdb := database.InitRedis(utils.GetEnvDefault("REDIS_ADDR", "localhost:6379"))

	metrics.InitAPIMetrics()
	shutdownTracer := tracing.InitTracer("notification-api", logr)
	defer shutdownTracer()

	broker := utils.GetEnv("KAFKA_BROKER")
	producer := kafka.NewProducer([]string{broker})
	logr.Info("Kafka producer initialized", zap.String("broker", broker))

	templateRepo := repositories.NewTemplateRepository(db)
	engine := templates.NewEngine(templateRepo, logr)

	router := gin.Default()
	router.Use(middlewares.GinMetricsMiddleware())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api")
	routes.Notifications(v1.Group("/notifications"), db, logr)
	routes.Templates(v1.Group("/templates"), db, engine, logr)
	routes.Events(v1.Group("/events"), producer, cfg.Kafka.EventsTopic, rdb, logr)
	routes.Recipients(v1.Group("/recipients"), db, logr)

	go handleShutdown(producer, logr)
	if err := router.Run(":3000"); err != nil {
		logr.Fatal("Failed to start server", zap.Error(err))
	}
}

func handleShutdown(producer *kafka.Producer, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", zap.String("signal", sig.String()))

	if err := producer.Close(); err != nil {
		log.Error("Error closing Kafka producer", zap.Error(err))
	} else {
		log.Info("Kafka producer closed cleanly")
	}

	os.Exit(0)
}
