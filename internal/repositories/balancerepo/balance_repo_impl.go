package balancerepo

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
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type balanceRepository struct {
	q      queryer
	logger zerolog.Logger
}

func New(db *database.DBManager, logger zerolog.Logger) IBalanceRepository {
	return &balanceRepository{
		q:      db.Db,
		logger: logger,
	}
}

func (r *balanceRepository) WithTx(tx *sql.Tx) IBalanceRepository {
	return &balanceRepository{
		q:      tx,
		logger: r.logger,
	}
}

func (r *balanceRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return 0, fmt.Errorf("invalid user_id format: %v", err)
	}

	var balance int64
	err := r.q.QueryRowContext(ctx,
		`SELECT pimenta_balance FROM users WHERE id = $1`, userID,
	).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrUserNotFound
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to get balance")
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func (r *balanceRepository) Credit(ctx context.Context, userID string, pimentas int64) (int64, error) {
	if pimentas <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %d", pimentas)
	}

	var balance int64
	err := r.q.QueryRowContext(ctx,
		`UPDATE users
		 SET pimenta_balance = pimenta_balance + $2, updated_at = now()
		 WHERE id = $1
		 RETURNING pimenta_balance`,
		userID, pimentas,
	).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrUserNotFound
		}
		r.logger.Error().Err(err).Str("user_id", userID).Int64("pimentas", pimentas).Msg("Failed to credit balance")
		return 0, fmt.Errorf("failed to credit balance: %w", err)
	}
	return balance, nil
}

// Debit decrements the balance only when it covers the amount. The guard in
// the WHERE clause is what serializes racing debits: when two spenders race
// over the last pimenta, one UPDATE matches and the other returns no row.
func (r *balanceRepository) Debit(ctx context.Context, userID string, pimentas int64) (int64, error) {
	if pimentas <= 0 {
		return 0, fmt.Errorf("debit amount must be positive, got %d", pimentas)
	}

	var balance int64
	err := r.q.QueryRowContext(ctx,
		`UPDATE users
		 SET pimenta_balance = pimenta_balance - $2, updated_at = now()
		 WHERE id = $1 AND pimenta_balance >= $2
		 RETURNING pimenta_balance`,
		userID, pimentas,
	).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrInsufficientPimentas
		}
		r.logger.Error().Err(err).Str("user_id", userID).Int64("pimentas", pimentas).Msg("Failed to debit balance")
		return 0, fmt.Errorf("failed to debit balance: %w", err)
	}
	return balance, nil
}
