package access

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
)

// Repository exposes license persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a license repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByOrgID loads the single license row for an organization.
func (r *Repository) FindByOrgID(ctx context.Context, orgID uuid.UUID) (*models.License, error) {
	var license models.License
	if err := r.db.WithContext(ctx).Where("org_id = ?", orgID).First(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

// Update persists mutated license fields.
func (r *Repository) Update(ctx context.Context, license *models.License) error {
	return r.db.WithContext(ctx).Save(license).Error
}
