package enums

import "fmt"

// PaymentLinkStatus tracks whether an issued payment link is the latest one.
type PaymentLinkStatus string

const (
	PaymentLinkStatusActive     PaymentLinkStatus = "active"
	PaymentLinkStatusSuperseded PaymentLinkStatus = "superseded"
)

var validPaymentLinkStatuses = []PaymentLinkStatus{
	PaymentLinkStatusActive,
	PaymentLinkStatusSuperseded,
}

// String implements fmt.Stringer.
func (p PaymentLinkStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentLinkStatus.
func (p PaymentLinkStatus) IsValid() bool {
	for _, candidate := range validPaymentLinkStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentLinkStatus converts raw input into a PaymentLinkStatus.
func ParsePaymentLinkStatus(value string) (PaymentLinkStatus, error) {
	for _, candidate := range validPaymentLinkStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment link status %q", value)
}
