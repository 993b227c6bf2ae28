package transactionrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sqlc-dev/pqtype"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/database"
)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type transactionRepository struct {
	q      queryer
	logger zerolog.Logger
}

func New(db *database.DBManager, logger zerolog.Logger) ITransactionRepository {
	return &transactionRepository{
		q:      db.Db,
		logger: logger,
	}
}

func (r *transactionRepository) WithTx(tx *sql.Tx) ITransactionRepository {
	return &transactionRepository{
		q:      tx,
		logger: r.logger,
	}
}

const transactionColumns = `id, user_id, product_id, product_kind, product_name, amount_cents,
	status, provider, payment_method, gateway_order_id, gateway_charge_id, metadata,
	created_at, updated_at`

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	if _, err := uuid.Parse(t.UserID); err != nil {
		return fmt.Errorf("invalid user_id format: %v", err)
	}

	query := `INSERT INTO transactions
		(id, user_id, product_id, product_kind, product_name, amount_cents,
		 status, provider, payment_method, gateway_order_id, gateway_charge_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	metadata := pqtype.NullRawMessage{RawMessage: t.Metadata, Valid: t.Metadata != nil}

	err := r.q.QueryRowContext(ctx, query,
		t.ID,
		t.UserID,
		t.ProductID,
		string(t.ProductKind),
		t.ProductName,
		t.AmountCents,
		string(t.Status),
		string(t.Provider),
		string(t.PaymentMethod),
		t.GatewayOrderID,
		t.GatewayChargeID,
		metadata,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("transaction_id", t.ID).Msg("Failed to create transaction")
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *transactionRepository) GetByGatewayChargeID(ctx context.Context, chargeID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE gateway_charge_id = $1 OR gateway_order_id = $1
		ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(ctx, query, chargeID)
}

// SetGatewayIDs records the provider-assigned identifiers and, when present,
// the provider's raw response as the jsonb audit payload on the row.
func (r *transactionRepository) SetGatewayIDs(ctx context.Context, id string, orderID, chargeID *string, raw json.RawMessage) error {
	query := `UPDATE transactions
		SET gateway_order_id = COALESCE($2, gateway_order_id),
		    gateway_charge_id = COALESCE($3, gateway_charge_id),
		    metadata = COALESCE($4, metadata),
		    updated_at = now()
		WHERE id = $1`

	metadata := pqtype.NullRawMessage{RawMessage: raw, Valid: len(raw) > 0}
	res, err := r.q.ExecContext(ctx, query, id, orderID, chargeID, metadata)
	if err != nil {
		r.logger.Error().Err(err).Str("transaction_id", id).Msg("Failed to store gateway ids")
		return fmt.Errorf("failed to store gateway ids: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// ApplyStatus performs the single guarded read-modify-write of the state
// machine: the UPDATE only matches when the transition is one the machine
// accepts, so concurrent deliveries serialize on the row and at most one
// observes Applied=true for any given step.
func (r *transactionRepository) ApplyStatus(ctx context.Context, id string, status domain.TransactionStatus, gatewayChargeID *string) (*ApplyStatusResult, error) {
	query := `UPDATE transactions
		SET status = $2,
		    gateway_charge_id = COALESCE($3, gateway_charge_id),
		    updated_at = now()
		WHERE id = $1
		  AND status <> $2
		  AND (status = 'pending' OR (status = 'authorized' AND $2 = 'paid'))`

	res, err := r.q.ExecContext(ctx, query, id, string(status), gatewayChargeID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("transaction_id", id).
			Str("candidate_status", string(status)).
			Msg("Failed to apply status transition")
		return nil, fmt.Errorf("failed to apply status transition: %w", err)
	}

	applied, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}

	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTransactionNotFound
	}

	return &ApplyStatusResult{
		Applied:     applied > 0,
		Transaction: t,
	}, nil
}

func (r *transactionRepository) scanOne(ctx context.Context, query string, arg interface{}) (*domain.Transaction, error) {
	var (
		t           domain.Transaction
		productKind string
		status      string
		provider    string
		method      string
		orderID     sql.NullString
		chargeID    sql.NullString
		metadata    pqtype.NullRawMessage
	)

	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&t.ID,
		&t.UserID,
		&t.ProductID,
		&productKind,
		&t.ProductName,
		&t.AmountCents,
		&status,
		&provider,
		&method,
		&orderID,
		&chargeID,
		&metadata,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("Failed to get transaction")
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	t.ProductKind = domain.ProductKind(productKind)
	t.Status = domain.TransactionStatus(status)
	t.Provider = domain.Provider(provider)
	t.PaymentMethod = domain.PaymentMethod(method)
	if orderID.Valid {
		t.GatewayOrderID = &orderID.String
	}
	if chargeID.Valid {
		t.GatewayChargeID = &chargeID.String
	}
	if metadata.Valid {
		t.Metadata = metadata.RawMessage
	}

	return &t, nil
}
