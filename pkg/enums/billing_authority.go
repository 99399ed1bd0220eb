package enums

import "fmt"

// BillingAuthority names the system of record for license expiration.
// DB-authoritative licenses are bounded by the locally stored expires_at;
// Stripe-authoritative licenses are bounded by the subscription's
// current_period_end.
type BillingAuthority string

const (
	BillingAuthorityDB     BillingAuthority = "db"
	BillingAuthorityStripe BillingAuthority = "stripe"
)

var validBillingAuthorities = []BillingAuthority{
	BillingAuthorityDB,
	BillingAuthorityStripe,
}

// String implements fmt.Stringer.
func (b BillingAuthority) String() string {
	return string(b)
}

// IsValid reports whether the value is a known billing authority.
func (b BillingAuthority) IsValid() bool {
	for _, candidate := range validBillingAuthorities {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBillingAuthority converts raw input into a BillingAuthority.
func ParseBillingAuthority(value string) (BillingAuthority, error) {
	for _, candidate := range validBillingAuthorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid billing authority %q", value)
}
