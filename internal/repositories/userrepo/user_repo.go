package userrepo

import (
	"context"
	"database/sql"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
)

type IUserRepository interface {
	WithTx(tx *sql.Tx) IUserRepository
	GetByID(ctx context.Context, id string) (*domain.User, error)
	SetTaxID(ctx context.Context, id, taxID string) error
}
