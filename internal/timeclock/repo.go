package timeclock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
)

// Repository persists clock-in/clock-out pairs.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a time entry repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new time entry row.
func (r *Repository) Create(ctx context.Context, entry *models.TimeEntry) (*models.TimeEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// FindOpenEntry loads the student's entry without a clock_out, if any.
func (r *Repository) FindOpenEntry(ctx context.Context, studentID uuid.UUID) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND clock_out IS NULL", studentID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Close stamps the clock_out and the worked minutes on an entry.
func (r *Repository) Close(ctx context.Context, id uuid.UUID, clockOut time.Time, minutes int) error {
	return r.db.WithContext(ctx).Model(&models.TimeEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{"clock_out": clockOut, "minutes": minutes}).Error
}
