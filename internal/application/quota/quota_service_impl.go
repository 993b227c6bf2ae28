package quota

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/database"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/balancerepo"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/messagerepo"
)

type quotaService struct {
	db          database.TxRunner
	messageRepo messagerepo.IMessageRepository
	balanceRepo balancerepo.IBalanceRepository
	policy      Policy
	logger      zerolog.Logger
}

func NewQuotaService(
	db database.TxRunner,
	messageRepo messagerepo.IMessageRepository,
	balanceRepo balancerepo.IBalanceRepository,
	policy Policy,
	logger zerolog.Logger,
) IQuotaService {
	return &quotaService{
		db:          db,
		messageRepo: messageRepo,
		balanceRepo: balanceRepo,
		policy:      policy,
		logger:      logger,
	}
}

// SendMessage creates the message and, when the policy prices it, debits the
// sender in the same atomic unit. Insufficient balance aborts the whole unit:
// no message row, no balance change.
func (s *quotaService) SendMessage(ctx context.Context, senderID string, req *SendMessageRequest) (*SendMessageResult, error) {
	cost, err := s.policy.MessageCost(ctx, senderID, req.RecipientID)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		ID:           uuid.NewString(),
		SenderID:     senderID,
		RecipientID:  req.RecipientID,
		Body:         req.Body,
		CostPimentas: cost,
	}

	if cost == 0 {
		if err := s.messageRepo.Create(ctx, message); err != nil {
			return nil, err
		}
		return &SendMessageResult{Message: message}, nil
	}

	var newBalance int64
	err = s.db.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.messageRepo.WithTx(tx).Create(ctx, message); err != nil {
			return err
		}
		balance, err := s.balanceRepo.WithTx(tx).Debit(ctx, senderID, cost)
		if err != nil {
			return err
		}
		newBalance = balance
		return nil
	})
	if err != nil {
		if err == domain.ErrInsufficientPimentas {
			s.logger.Info().
				Str("sender_id", senderID).
				Int64("cost", cost).
				Msg("Message rejected: insufficient pimentas")
		}
		return nil, err
	}

	s.logger.Info().
		Str("message_id", message.ID).
		Str("sender_id", senderID).
		Int64("cost", cost).
		Int64("new_balance", newBalance).
		Msg("Paid message sent")

	return &SendMessageResult{
		Message:    message,
		NewBalance: &newBalance,
	}, nil
}

func (s *quotaService) GetConversation(ctx context.Context, userID, otherID string, limit, offset int) ([]*domain.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.messageRepo.ListConversation(ctx, userID, otherID, limit, offset)
}

func (s *quotaService) GetBalance(ctx context.Context, userID string) (int64, error) {
	return s.balanceRepo.GetBalance(ctx, userID)
}
