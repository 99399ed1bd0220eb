package enums

import "fmt"

// PlanPaymentStatus is the derived currency of a student's payment plan.
type PlanPaymentStatus string

const (
	PlanPaymentStatusCurrent    PlanPaymentStatus = "current"
	PlanPaymentStatusDue        PlanPaymentStatus = "due"
	PlanPaymentStatusOverdue    PlanPaymentStatus = "overdue"
	PlanPaymentStatusPaidInFull PlanPaymentStatus = "paid_in_full"
)

var validPlanPaymentStatuses = []PlanPaymentStatus{
	PlanPaymentStatusCurrent,
	PlanPaymentStatusDue,
	PlanPaymentStatusOverdue,
	PlanPaymentStatusPaidInFull,
}

// String implements fmt.Stringer.
func (p PlanPaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PlanPaymentStatus.
func (p PlanPaymentStatus) IsValid() bool {
	for _, candidate := range validPlanPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlanPaymentStatus converts raw input into a PlanPaymentStatus.
func ParsePlanPaymentStatus(value string) (PlanPaymentStatus, error) {
	for _, candidate := range validPlanPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan payment status %q", value)
}
