package enums

import "fmt"

// LicenseStatus maps to the license_status enum in Postgres.
type LicenseStatus string

const (
	LicenseStatusTrial     LicenseStatus = "trial"
	LicenseStatusActive    LicenseStatus = "active"
	LicenseStatusPastDue   LicenseStatus = "past_due"
	LicenseStatusCanceled  LicenseStatus = "canceled"
	LicenseStatusSuspended LicenseStatus = "suspended"
)

var validLicenseStatuses = []LicenseStatus{
	LicenseStatusTrial,
	LicenseStatusActive,
	LicenseStatusPastDue,
	LicenseStatusCanceled,
	LicenseStatusSuspended,
}

// String implements fmt.Stringer.
func (l LicenseStatus) String() string {
	return string(l)
}

// IsValid reports whether the value matches the canonical license_status enum.
func (l LicenseStatus) IsValid() bool {
	for _, candidate := range validLicenseStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLicenseStatus converts raw input into LicenseStatus.
func ParseLicenseStatus(value string) (LicenseStatus, error) {
	for _, candidate := range validLicenseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid license status %q", value)
}
