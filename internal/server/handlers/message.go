package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/quota"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/server/websocket"
)

type MessageHandler struct {
	quotaSvc quota.IQuotaService
	hub      *websocket.Hub
	logger   zerolog.Logger
}

func NewMessageHandler(quotaSvc quota.IQuotaService, hub *websocket.Hub, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		quotaSvc: quotaSvc,
		hub:      hub,
		logger:   logger,
	}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req quota.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_REQUEST",
			"message": err.Error(),
		})
		return
	}

	senderID := currentUserID(c)
	result, err := h.quotaSvc.SendMessage(c.Request.Context(), senderID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if h.hub != nil && result.NewBalance != nil {
		h.hub.NotifyBalance(senderID, *result.NewBalance)
	}

	response := gin.H{"message": result.Message}
	// The balance only shows up when a debit actually happened.
	if result.NewBalance != nil {
		response["pimenta_balance"] = *result.NewBalance
	}
	c.JSON(http.StatusCreated, response)
}

func (h *MessageHandler) GetConversation(c *gin.Context) {
	limit := 50
	offset := 0
	if v, err := parsePositiveInt(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := parsePositiveInt(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}

	messages, err := h.quotaSvc.GetConversation(c.Request.Context(), currentUserID(c), c.Param("user_id"), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
