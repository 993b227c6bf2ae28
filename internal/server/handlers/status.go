package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/server/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StatusHandler upgrades authenticated clients onto the payment-update hub.
type StatusHandler struct {
	hub    *websocket.Hub
	logger zerolog.Logger
}

func NewStatusHandler(hub *websocket.Hub, logger zerolog.Logger) *StatusHandler {
	return &StatusHandler{
		hub:    hub,
		logger: logger,
	}
}

func (h *StatusHandler) HandleConnection(c *gin.Context) {
	userID := currentUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := &websocket.Client{
		UserID: userID,
		Conn:   conn,
	}
	h.hub.Register <- client

	// Drain the read side so we notice disconnects.
	go func() {
		defer func() {
			h.hub.Unregister <- client
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func parsePositiveInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.Atoi(s)
}
