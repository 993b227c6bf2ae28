package messagerepo

import (
	"context"
	"database/sql"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
)

type IMessageRepository interface {
	WithTx(tx *sql.Tx) IMessageRepository
	Create(ctx context.Context, m *domain.Message) error
	ListConversation(ctx context.Context, userID, otherID string, limit, offset int) ([]*domain.Message, error)
}
