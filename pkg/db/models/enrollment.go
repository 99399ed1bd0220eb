package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

// Enrollment ties a student to a program and carries the payment-plan
// parameters the weekly balance is derived from.
type Enrollment struct {
	ID                  uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StudentID           uuid.UUID              `gorm:"column:student_id;type:uuid;not null;index"`
	OrgID               uuid.UUID              `gorm:"column:org_id;type:uuid;not null;index"`
	Email               string                 `gorm:"column:email;not null"`
	FullName            string                 `gorm:"column:full_name;not null"`
	ProgramSlug         string                 `gorm:"column:program_slug;not null"`
	Status              enums.EnrollmentStatus `gorm:"column:status;type:enrollment_status;not null;default:'active'"`
	HoursPerWeek        int                    `gorm:"column:hours_per_week;not null;default:40"`
	TransferHours       int                    `gorm:"column:transfer_hours;not null;default:0"`
	TotalOwed           decimal.Decimal        `gorm:"column:total_owed;type:numeric(12,2);not null"`
	WeeklyPaymentAmount decimal.Decimal        `gorm:"column:weekly_payment_amount;type:numeric(12,2);not null"`
	CreatedAt           time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
