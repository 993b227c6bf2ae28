package packagerepo

import (
	"context"
	"database/sql"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
)

type IPackageRepository interface {
	WithTx(tx *sql.Tx) IPackageRepository
	List(ctx context.Context) ([]*domain.PimentaPackage, error)
	GetByID(ctx context.Context, id string) (*domain.PimentaPackage, error)
}
