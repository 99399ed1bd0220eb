package models

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry is one clock-in/clock-out pair of apprenticeship hours.
type TimeEntry struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StudentID uuid.UUID  `gorm:"column:student_id;type:uuid;not null;index"`
	ClockIn   time.Time  `gorm:"column:clock_in;not null"`
	ClockOut  *time.Time `gorm:"column:clock_out"`
	Minutes   int        `gorm:"column:minutes;not null;default:0"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
