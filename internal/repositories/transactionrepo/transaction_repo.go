package transactionrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
)

// ApplyStatusResult reports the outcome of one state-machine step. Applied is
// false when the transaction was already terminal or already at the candidate
// status, which is how webhook redelivery stays idempotent.
type ApplyStatusResult struct {
	Applied     bool
	Transaction *domain.Transaction
}

type ITransactionRepository interface {
	WithTx(tx *sql.Tx) ITransactionRepository
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByGatewayChargeID(ctx context.Context, chargeID string) (*domain.Transaction, error)
	SetGatewayIDs(ctx context.Context, id string, orderID, chargeID *string, raw json.RawMessage) error
	ApplyStatus(ctx context.Context, id string, status domain.TransactionStatus, gatewayChargeID *string) (*ApplyStatusResult, error)
}
