package userrepo

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
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type userRepository struct {
	q      queryer
	logger zerolog.Logger
}

func New(db *database.DBManager, logger zerolog.Logger) IUserRepository {
	return &userRepository{
		q:      db.Db,
		logger: logger,
	}
}

func (r *userRepository) WithTx(tx *sql.Tx) IUserRepository {
	return &userRepository{
		q:      tx,
		logger: r.logger,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid user_id format: %v", err)
	}

	var (
		u     domain.User
		taxID sql.NullString
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, email, tax_id, pimenta_balance, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &taxID, &u.PimentaBalance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id).Msg("Failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if taxID.Valid {
		u.TaxID = &taxID.String
	}

	return &u, nil
}

func (r *userRepository) SetTaxID(ctx context.Context, id, taxID string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET tax_id = $2, updated_at = now() WHERE id = $1`,
		id, taxID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id).Msg("Failed to store tax id")
		return fmt.Errorf("failed to store tax id: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
