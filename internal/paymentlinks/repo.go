package paymentlinks

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

// Repository persists issued payment links. Rows are append-only; a new
// cycle supersedes earlier links instead of editing them.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payment link repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx inserts a new payment link row using the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, link *models.PaymentLink) (*models.PaymentLink, error) {
	if err := tx.Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

// FindByID loads one payment link row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentLink, error) {
	var link models.PaymentLink
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// MarkSupersededWithTx retires the student's currently active links using
// the provided transaction.
func (r *Repository) MarkSupersededWithTx(tx *gorm.DB, studentID uuid.UUID) error {
	return tx.Model(&models.PaymentLink{}).
		Where("student_id = ? AND status = ?", studentID, enums.PaymentLinkStatusActive).
		UpdateColumn("status", enums.PaymentLinkStatusSuperseded).Error
}
