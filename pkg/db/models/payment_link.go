package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

// PaymentLink records one issued payment request. Rows are immutable once
// written; the next billing cycle supersedes them with a fresh link.
type PaymentLink struct {
	ID                  uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StudentID           uuid.UUID               `gorm:"column:student_id;type:uuid;not null;index"`
	StripePaymentLinkID string                  `gorm:"column:stripe_payment_link_id;not null"`
	URL                 string                  `gorm:"column:url;not null"`
	Amount              decimal.Decimal         `gorm:"column:amount;type:numeric(12,2);not null"`
	Type                string                  `gorm:"column:type;not null;default:'weekly_payment'"`
	Status              enums.PaymentLinkStatus `gorm:"column:status;type:payment_link_status;not null;default:'active'"`
	ExpiresAt           time.Time               `gorm:"column:expires_at;not null"`
	CreatedAt           time.Time               `gorm:"column:created_at;autoCreateTime"`
}
