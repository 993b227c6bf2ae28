package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
)

type Hub struct {
	Clients    map[string]map[*websocket.Conn]bool
	Broadcast  chan Update
	Register   chan *Client
	Unregister chan *Client
	Logger     zerolog.Logger
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
}

// Update is pushed to a user's open connections when one of their payments
// settles or their balance moves.
type Update struct {
	Type          string                   `json:"type"`
	UserID        string                   `json:"-"`
	TransactionID string                   `json:"transaction_id,omitempty"`
	Status        domain.TransactionStatus `json:"status,omitempty"`
	NewBalance    *int64                   `json:"new_balance,omitempty"`
	Timestamp     time.Time                `json:"timestamp"`
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		Clients:    make(map[string]map[*websocket.Conn]bool),
		Broadcast:  make(chan Update, 100),
		Register:   make(chan *Client, 100),
		Unregister: make(chan *Client, 100),
		Logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			if h.Clients[client.UserID] == nil {
				h.Clients[client.UserID] = make(map[*websocket.Conn]bool)
			}
			h.Clients[client.UserID][client.Conn] = true
			h.Logger.Info().
				Str("user_id", client.UserID).
				Int("connection_count", len(h.Clients[client.UserID])).
				Msg("WebSocket client registered")

		case client := <-h.Unregister:
			if clients, ok := h.Clients[client.UserID]; ok {
				delete(clients, client.Conn)
				if len(clients) == 0 {
					delete(h.Clients, client.UserID)
				}
				client.Conn.Close()
			}

		case update := <-h.Broadcast:
			clients, ok := h.Clients[update.UserID]
			if !ok {
				continue
			}
			for conn := range clients {
				if err := conn.WriteJSON(update); err != nil {
					h.Logger.Err(err).
						Str("user_id", update.UserID).
						Str("type", update.Type).
						Msg("Failed to send WebSocket update")
					conn.Close()
					delete(clients, conn)
				}
			}
			if len(clients) == 0 {
				delete(h.Clients, update.UserID)
			}
		}
	}
}

// NotifyPayment implements the reconciler's Notifier.
func (h *Hub) NotifyPayment(userID string, transaction *domain.Transaction, newBalance *int64) {
	h.Broadcast <- Update{
		Type:          "payment",
		UserID:        userID,
		TransactionID: transaction.ID,
		Status:        transaction.Status,
		NewBalance:    newBalance,
		Timestamp:     time.Now(),
	}
}

// NotifyBalance pushes a bare balance change (e.g. after a paid message).
func (h *Hub) NotifyBalance(userID string, newBalance int64) {
	h.Broadcast <- Update{
		Type:       "balance",
		UserID:     userID,
		NewBalance: &newBalance,
		Timestamp:  time.Now(),
	}
}
