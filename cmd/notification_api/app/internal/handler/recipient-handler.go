package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Burhankhalid/hr-pipeline-notifications/cmd/notification_api/app/internal/services"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

type RecipientHandler struct {
	service *services.RecipientService
}

func NewRecipientHandler(db *gorm.DB) *RecipientHandler {
	return &RecipientHandler{service: services.NewRecipientService(db)}
}

func (h *RecipientHandler) UpsertRecipient(c *gin.Context) {
	var recipient models.Recipient
	if err := c.ShouldBindJSON(&recipient); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpsertRecipient(c.Request.Context(), &recipient); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, recipient)
}

func (h *RecipientHandler) GetRecipient(c *gin.Context) {
	recipient, err := h.service.GetRecipientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, recipient)
}
