package enums

import "fmt"

// LicenseTier identifies the product category an organization purchased.
type LicenseTier string

const (
	LicenseTierTrial        LicenseTier = "trial"
	LicenseTierSubscription LicenseTier = "subscription"
	LicenseTierLifetime     LicenseTier = "lifetime"
	LicenseTierFounder      LicenseTier = "founder"
)

var validLicenseTiers = []LicenseTier{
	LicenseTierTrial,
	LicenseTierSubscription,
	LicenseTierLifetime,
	LicenseTierFounder,
}

// String implements fmt.Stringer.
func (l LicenseTier) String() string {
	return string(l)
}

// IsValid reports whether the value matches a known license tier.
func (l LicenseTier) IsValid() bool {
	for _, candidate := range validLicenseTiers {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLicenseTier converts raw input into a LicenseTier.
func ParseLicenseTier(value string) (LicenseTier, error) {
	for _, candidate := range validLicenseTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid license tier %q", value)
}
