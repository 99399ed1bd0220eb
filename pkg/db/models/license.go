package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

// License grants an organization access to the platform. Rows are never
// hard-deleted; canceled and suspended licenses are retained for audit.
type License struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrgID                uuid.UUID           `gorm:"column:org_id;type:uuid;not null;uniqueIndex"`
	Tier                 enums.LicenseTier   `gorm:"column:tier;not null"`
	Status               enums.LicenseStatus `gorm:"column:status;type:license_status;not null;default:'trial'"`
	ExpiresAt            *time.Time          `gorm:"column:expires_at"`
	CurrentPeriodEnd     *time.Time          `gorm:"column:current_period_end"`
	StripeSubscriptionID *string             `gorm:"column:stripe_subscription_id"`
	StripeCustomerID     *string             `gorm:"column:stripe_customer_id"`
	CanceledAt           *time.Time          `gorm:"column:canceled_at"`
	SuspendedAt          *time.Time          `gorm:"column:suspended_at"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
