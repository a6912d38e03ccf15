package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/cmd/notification_api/app/internal/services"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/events"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/kafka"
)

type EventHandler struct {
	service *services.EventService
	log     *zap.Logger
}

func NewEventHandler(producer *kafka.Producer, topic string, log *zap.Logger) *EventHandler {
	return &EventHandler{service: services.NewEventService(producer, topic), log: log}
}

func (h *EventHandler) PublishEvent(c *gin.Context) {
	var event events.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.PublishEvent(c.Request.Context(), &event); err != nil {
		h.log.Error("publish event", zap.String("event_type", event.Type), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.log.Info("event accepted",
		zap.String("event_type", event.Type),
		zap.String("correlation_id", event.CorrelationID.String()),
	)
	c.JSON(http.StatusAccepted, gin.H{
		"eventType":     event.Type,
		"correlationId": event.CorrelationID,
	})
}
