package models

import (
	"time"

	"github.com/google/uuid"
)

// LicenseUsage holds the per-organization resource counters checked against
// license limits. A limit of -1 means unlimited.
type LicenseUsage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrgID        uuid.UUID `gorm:"column:org_id;type:uuid;not null;uniqueIndex"`
	StudentCount int       `gorm:"column:student_count;not null;default:0"`
	StudentLimit int       `gorm:"column:student_limit;not null;default:-1"`
	AdminCount   int       `gorm:"column:admin_count;not null;default:0"`
	AdminLimit   int       `gorm:"column:admin_limit;not null;default:-1"`
	ProgramCount int       `gorm:"column:program_count;not null;default:0"`
	ProgramLimit int       `gorm:"column:program_limit;not null;default:-1"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides gorm's pluralization.
func (LicenseUsage) TableName() string { return "license_usage" }
