package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

// Repository reads enrollment terms and payment history.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payments repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindActiveEnrollment loads the student's active enrollment.
func (r *Repository) FindActiveEnrollment(ctx context.Context, studentID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, enums.EnrollmentStatusActive).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListActiveEnrollments returns every active enrollment, newest first.
func (r *Repository) ListActiveEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	var rows []models.Enrollment
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.EnrollmentStatusActive).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCompletedPayments returns the student's completed payments, newest first.
func (r *Repository) ListCompletedPayments(ctx context.Context, studentID uuid.UUID) ([]models.StudentPayment, error) {
	var rows []models.StudentPayment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, enums.PaymentStatusCompleted).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
