package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

// StudentPayment records a single tuition payment. Only completed rows
// count toward a student's balance.
type StudentPayment struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StudentID uuid.UUID           `gorm:"column:student_id;type:uuid;not null;index"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status    enums.PaymentStatus `gorm:"column:status;type:payment_status;not null;default:'pending'"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
