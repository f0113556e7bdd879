package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"edifika/internal/domain"
	"edifika/internal/port"
)

type catalogRepo struct {
	db *sqlx.DB
}

// NewCatalogRepo creates a new PostgreSQL-backed CatalogRepository.
func NewCatalogRepo(db *sqlx.DB) port.CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) ListCategories(ctx context.Context) ([]domain.ItemCategory, error) {
	var categories []domain.ItemCategory
	err := r.db.SelectContext(ctx, &categories,
		"SELECT * FROM item_categories ORDER BY code ASC")
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListCategories: %w", err)
	}
	return categories, nil
}

func (r *catalogRepo) ListUnits(ctx context.Context) ([]domain.ItemUnit, error) {
	var units []domain.ItemUnit
	err := r.db.SelectContext(ctx, &units,
		"SELECT * FROM item_units ORDER BY code ASC")
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListUnits: %w", err)
	}
	return units, nil
}
