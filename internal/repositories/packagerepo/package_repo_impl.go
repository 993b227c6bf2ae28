package packagerepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/database"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type packageRepository struct {
	q      queryer
	logger zerolog.Logger
}

func New(db *database.DBManager, logger zerolog.Logger) IPackageRepository {
	return &packageRepository{
		q:      db.Db,
		logger: logger,
	}
}

func (r *packageRepository) WithTx(tx *sql.Tx) IPackageRepository {
	return &packageRepository{
		q:      tx,
		logger: r.logger,
	}
}

func (r *packageRepository) List(ctx context.Context) ([]*domain.PimentaPackage, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, pimentas, price_cents, active, created_at
		 FROM pimenta_packages
		 WHERE active = true
		 ORDER BY price_cents ASC`)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to list pimenta packages")
		return nil, fmt.Errorf("failed to list pimenta packages: %w", err)
	}
	defer rows.Close()

	var packages []*domain.PimentaPackage
	for rows.Next() {
		var p domain.PimentaPackage
		if err := rows.Scan(&p.ID, &p.Name, &p.Pimentas, &p.PriceCents, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pimenta package: %w", err)
		}
		packages = append(packages, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pimenta packages: %w", err)
	}

	return packages, nil
}

func (r *packageRepository) GetByID(ctx context.Context, id string) (*domain.PimentaPackage, error) {
	var p domain.PimentaPackage
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, pimentas, price_cents, active, created_at
		 FROM pimenta_packages
		 WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Pimentas, &p.PriceCents, &p.Active, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("package_id", id).Msg("Failed to get pimenta package")
		return nil, fmt.Errorf("failed to get pimenta package: %w", err)
	}
	return &p, nil
}
