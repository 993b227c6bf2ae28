package balancerepo

import (
	"context"
	"database/sql"
)

// IBalanceRepository owns the pimenta balance column. Credit and Debit are the
// only two mutations, and both are single guarded statements so the balance
// can never be observed negative at a committed state.
type IBalanceRepository interface {
	WithTx(tx *sql.Tx) IBalanceRepository
	GetBalance(ctx context.Context, userID string) (int64, error)
	Credit(ctx context.Context, userID string, pimentas int64) (int64, error)
	Debit(ctx context.Context, userID string, pimentas int64) (int64, error)
}
