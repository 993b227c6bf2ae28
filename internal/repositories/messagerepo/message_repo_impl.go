package messagerepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/database"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type messageRepository struct {
	q      queryer
	logger zerolog.Logger
}

func New(db *database.DBManager, logger zerolog.Logger) IMessageRepository {
	return &messageRepository{
		q:      db.Db,
		logger: logger,
	}
}

func (r *messageRepository) WithTx(tx *sql.Tx) IMessageRepository {
	return &messageRepository{
		q:      tx,
		logger: r.logger,
	}
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	for _, id := range []string{m.SenderID, m.RecipientID} {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("invalid user id format: %v", err)
		}
	}

	err := r.q.QueryRowContext(ctx,
		`INSERT INTO messages (id, sender_id, recipient_id, body, cost_pimentas)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		m.ID, m.SenderID, m.RecipientID, m.Body, m.CostPimentas,
	).Scan(&m.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("sender_id", m.SenderID).Msg("Failed to create message")
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *messageRepository) ListConversation(ctx context.Context, userID, otherID string, limit, offset int) ([]*domain.Message, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, sender_id, recipient_id, body, cost_pimentas, created_at
		 FROM messages
		 WHERE (sender_id = $1 AND recipient_id = $2)
		    OR (sender_id = $2 AND recipient_id = $1)
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		userID, otherID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list conversation")
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.CostPimentas, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return messages, nil
}
