package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fly8-hq/fly8-api/internal/models"
)

// CatalogRepository provides persistence for the static reference data
// (services and universities).
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListServices returns active services in display order.
func (r *CatalogRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	const query = `SELECT id, name, description, icon, color, display_order, is_active, created_at, updated_at FROM services WHERE is_active = TRUE ORDER BY display_order ASC`
	var services []models.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// UpsertService inserts or refreshes a catalog service entry.
func (r *CatalogRepository) UpsertService(ctx context.Context, service *models.Service) error {
	now := time.Now().UTC()
	if service.CreatedAt.IsZero() {
		service.CreatedAt = now
	}
	service.UpdatedAt = now

	const query = `INSERT INTO services (id, name, description, icon, color, display_order, is_active, created_at, updated_at)
		VALUES (:id, :name, :description, :icon, :color, :display_order, :is_active, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, icon = EXCLUDED.icon, color = EXCLUDED.color, display_order = EXCLUDED.display_order, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, service); err != nil {
		return fmt.Errorf("upsert service: %w", err)
	}
	return nil
}

// ListUniversities returns active universities, best ranking first, with an
// optional country filter.
func (r *CatalogRepository) ListUniversities(ctx context.Context, country string) ([]models.University, error) {
	query := `SELECT id, name, country, city, ranking, logo, website, programs, is_active, created_at, updated_at FROM universities WHERE is_active = TRUE`
	var args []interface{}
	if strings.TrimSpace(country) != "" {
		query += " AND country = $1"
		args = append(args, country)
	}
	query += " ORDER BY ranking ASC NULLS LAST"

	var universities []models.University
	if err := r.db.SelectContext(ctx, &universities, query, args...); err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	return universities, nil
}

// CreateUniversity inserts a new university record.
func (r *CatalogRepository) CreateUniversity(ctx context.Context, university *models.University) error {
	if university.ID == "" {
		university.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if university.CreatedAt.IsZero() {
		university.CreatedAt = now
	}
	university.UpdatedAt = now
	university.IsActive = true

	const query = `INSERT INTO universities (id, name, country, city, ranking, logo, website, programs, is_active, created_at, updated_at) VALUES (:id, :name, :country, :city, :ranking, :logo, :website, :programs, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, university); err != nil {
		return fmt.Errorf("create university: %w", err)
	}
	return nil
}
