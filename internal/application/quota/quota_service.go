package quota

import (
	"context"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
)

// Policy decides what a gated action costs. The production policy lives with
// the profile/social service; this boundary only needs the number.
type Policy interface {
	MessageCost(ctx context.Context, senderID, recipientID string) (int64, error)
}

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

// SendMessageResult carries the created message and, only when a debit
// actually happened, the balance left after it.
type SendMessageResult struct {
	Message    *domain.Message
	NewBalance *int64
}

type IQuotaService interface {
	SendMessage(ctx context.Context, senderID string, req *SendMessageRequest) (*SendMessageResult, error)
	GetConversation(ctx context.Context, userID, otherID string, limit, offset int) ([]*domain.Message, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
}

// ConfigPolicy charges a flat per-message cost from configuration. Notes to
// yourself are free.
type ConfigPolicy struct {
	Cost int64
}

func (p ConfigPolicy) MessageCost(_ context.Context, senderID, recipientID string) (int64, error) {
	if senderID == recipientID {
		return 0, nil
	}
	return p.Cost, nil
}
