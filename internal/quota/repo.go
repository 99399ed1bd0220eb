package quota

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

// Repository owns the license_usage counters. All mutations go through the
// conditional-update primitive so concurrent callers can never overshoot a
// limit.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a usage repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func columnsFor(resource enums.QuotaResource) (countCol, limitCol string, err error) {
	switch resource {
	case enums.QuotaResourceStudents:
		return "student_count", "student_limit", nil
	case enums.QuotaResourceAdmins:
		return "admin_count", "admin_limit", nil
	case enums.QuotaResourcePrograms:
		return "program_count", "program_limit", nil
	default:
		return "", "", fmt.Errorf("unknown quota resource %q", resource)
	}
}

// FindByOrgID loads the usage row for an organization.
func (r *Repository) FindByOrgID(ctx context.Context, orgID uuid.UUID) (*models.LicenseUsage, error) {
	var usage models.LicenseUsage
	if err := r.db.WithContext(ctx).Where("org_id = ?", orgID).First(&usage).Error; err != nil {
		return nil, err
	}
	return &usage, nil
}

// Increment bumps the counter only while below the limit (-1 = unlimited).
// The WHERE clause is the compare-and-swap: RowsAffected == 0 means the slot
// was already taken (or the row is missing).
func (r *Repository) Increment(ctx context.Context, orgID uuid.UUID, resource enums.QuotaResource) (bool, error) {
	countCol, limitCol, err := columnsFor(resource)
	if err != nil {
		return false, err
	}
	tx := r.db.WithContext(ctx).Model(&models.LicenseUsage{}).
		Where("org_id = ?", orgID).
		Where(fmt.Sprintf("(%s = -1 OR %s < %s)", limitCol, countCol, limitCol)).
		UpdateColumn(countCol, gorm.Expr(fmt.Sprintf("%s + 1", countCol)))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// Decrement lowers the counter, flooring at zero.
func (r *Repository) Decrement(ctx context.Context, orgID uuid.UUID, resource enums.QuotaResource) error {
	countCol, _, err := columnsFor(resource)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.LicenseUsage{}).
		Where("org_id = ?", orgID).
		Where(fmt.Sprintf("%s > 0", countCol)).
		UpdateColumn(countCol, gorm.Expr(fmt.Sprintf("%s - 1", countCol))).Error
}
