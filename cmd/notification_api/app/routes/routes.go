package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/Burhankhalid/hr-pipeline-notifications/cmd/notification_api/app/internal/handler"
	"github.com/Burhankhalid/hr-pipeline-notifications/middlewares"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/kafka"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/templates"
)

func Notifications(r *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	notificationHandler := handler.NewNotificationHandler(db)

	r.GET("/", notificationHandler.ListNotifications)
	r.GET("/:id", notificationHandler.GetNotification)
	r.GET("/:id/attempts", notificationHandler.ListAttempts)
}

func Templates(r *gin.RouterGroup, db *gorm.DB, engine *templates.Engine, log *zap.Logger) {
	templateHandler := handler.NewTemplateHandler(db, engine)

	r.POST("/", templateHandler.CreateTemplate)
	r.GET("/", templateHandler.ListTemplates)
	r.GET("/:id", templateHandler.GetTemplateByID)
	r.PUT("/:id", templateHandler.UpdateTemplate)
	r.DELETE("/:id", templateHandler.DeleteTemplate)
}

func Events(r *gin.RouterGroup, producer *kafka.Producer, topic string, rdb *redis.Client, log *zap.Logger) {
	eventHandler := handler.NewEventHandler(producer, topic, log)
	limiter := middlewares.NewRateLimiter(rate.Limit(50), 100)

	r.POST("/",
		limiter.Middleware(),
		middlewares.IdempotencyMiddleware(rdb, 24*time.Hour),
		eventHandler.PublishEvent,
	)
}

func Recipients(r *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	recipientHandler := handler.NewRecipientHandler(db)

	r.POST("/", recipientHandler.UpsertRecipient)
	r.GET("/:id", recipientHandler.GetRecipient)
}
