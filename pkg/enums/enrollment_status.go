package enums

import "fmt"

// EnrollmentStatus maps to the enrollment_status enum in Postgres.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusWithdrawn EnrollmentStatus = "withdrawn"
)

var validEnrollmentStatuses = []EnrollmentStatus{
	EnrollmentStatusActive,
	EnrollmentStatusCompleted,
	EnrollmentStatusWithdrawn,
}

// String implements fmt.Stringer.
func (e EnrollmentStatus) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EnrollmentStatus.
func (e EnrollmentStatus) IsValid() bool {
	for _, candidate := range validEnrollmentStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEnrollmentStatus converts raw input into an EnrollmentStatus.
func ParseEnrollmentStatus(value string) (EnrollmentStatus, error) {
	for _, candidate := range validEnrollmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid enrollment status %q", value)
}
