package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

const (
	defaultOverdueAfter = 7 * 24 * time.Hour
	defaultPayday       = time.Friday
)

// StudentPaymentPlan is the derived view of a student's rolling balance.
// It is recomputed on every read and never persisted as a snapshot.
type StudentPaymentPlan struct {
	StudentID           uuid.UUID               `json:"student_id"`
	FullName            string                  `json:"full_name"`
	Email               string                  `json:"email"`
	TotalOwed           decimal.Decimal         `json:"total_owed"`
	TotalPaid           decimal.Decimal         `json:"total_paid"`
	RemainingBalance    decimal.Decimal         `json:"remaining_balance"`
	WeeklyPaymentAmount decimal.Decimal         `json:"weekly_payment_amount"`
	WeeksRemaining      int                     `json:"weeks_remaining"`
	PaymentStatus       enums.PlanPaymentStatus `json:"payment_status"`
	LastPaymentAt       *time.Time              `json:"last_payment_at,omitempty"`
}

// Calculator derives payment plans from enrollment terms plus completed
// payment history. Stateless; the clock is always injected.
type Calculator struct {
	overdueAfter time.Duration
	payday       time.Weekday
}

// NewCalculator builds a calculator. Non-positive overdueAfter falls back to
// the 7-day default.
func NewCalculator(overdueAfter time.Duration, payday time.Weekday) Calculator {
	if overdueAfter <= 0 {
		overdueAfter = defaultOverdueAfter
	}
	return Calculator{overdueAfter: overdueAfter, payday: payday}
}

// Derive computes the plan for one enrollment given its payment history.
// Only completed payments count toward the balance; a student with zero
// completed payments is overdue by policy, not an oversight.
func (c Calculator) Derive(enrollment *models.Enrollment, history []models.StudentPayment, now time.Time) StudentPaymentPlan {
	totalPaid := decimal.Zero
	var lastPaymentAt *time.Time
	for i := range history {
		p := history[i]
		if p.Status != enums.PaymentStatusCompleted {
			continue
		}
		totalPaid = totalPaid.Add(p.Amount)
		if lastPaymentAt == nil || p.CreatedAt.After(*lastPaymentAt) {
			t := p.CreatedAt
			lastPaymentAt = &t
		}
	}

	remaining := enrollment.TotalOwed.Sub(totalPaid)

	plan := StudentPaymentPlan{
		StudentID:           enrollment.StudentID,
		FullName:            enrollment.FullName,
		Email:               enrollment.Email,
		TotalOwed:           enrollment.TotalOwed,
		TotalPaid:           totalPaid,
		RemainingBalance:    remaining,
		WeeklyPaymentAmount: enrollment.WeeklyPaymentAmount,
		WeeksRemaining:      weeksRemaining(remaining, enrollment.WeeklyPaymentAmount),
		LastPaymentAt:       lastPaymentAt,
	}
	plan.PaymentStatus = c.deriveStatus(remaining, lastPaymentAt, now)
	return plan
}

func (c Calculator) deriveStatus(remaining decimal.Decimal, lastPaymentAt *time.Time, now time.Time) enums.PlanPaymentStatus {
	if remaining.LessThanOrEqual(decimal.Zero) {
		return enums.PlanPaymentStatusPaidInFull
	}
	if lastPaymentAt == nil || now.Sub(*lastPaymentAt) > c.overdueAfter {
		return enums.PlanPaymentStatusOverdue
	}
	if now.Weekday() == c.payday {
		return enums.PlanPaymentStatusDue
	}
	return enums.PlanPaymentStatusCurrent
}

func weeksRemaining(remaining, weekly decimal.Decimal) int {
	if remaining.LessThanOrEqual(decimal.Zero) || weekly.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return int(remaining.Div(weekly).Ceil().IntPart())
}
