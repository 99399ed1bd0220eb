package payments

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

func testEnrollment(totalOwed, weekly string) *models.Enrollment {
	return &models.Enrollment{
		StudentID:           uuid.New(),
		Email:               "student@example.com",
		FullName:            "Test Student",
		Status:              enums.EnrollmentStatusActive,
		TotalOwed:           decimal.RequireFromString(totalOwed),
		WeeklyPaymentAmount: decimal.RequireFromString(weekly),
	}
}

func completedPayment(amount string, at time.Time) models.StudentPayment {
	return models.StudentPayment{
		Amount:    decimal.RequireFromString(amount),
		Status:    enums.PaymentStatusCompleted,
		CreatedAt: at,
	}
}

// a Tuesday, so payday-derived "due" does not leak into other cases
var planNow = time.Date(2025, time.August, 5, 12, 0, 0, 0, time.UTC)

func TestDerivePaidInFull(t *testing.T) {
	calc := NewCalculator(0, defaultPayday)
	enrollment := testEnrollment("1000.00", "100.00")
	history := []models.StudentPayment{
		completedPayment("600.00", planNow.Add(-20*24*time.Hour)),
		completedPayment("400.00", planNow.Add(-2*24*time.Hour)),
	}

	plan := calc.Derive(enrollment, history, planNow)
	if plan.PaymentStatus != enums.PlanPaymentStatusPaidInFull {
		t.Fatalf("expected paid_in_full, got %s", plan.PaymentStatus)
	}
	if !plan.RemainingBalance.IsZero() {
		t.Fatalf("expected zero balance, got %s", plan.RemainingBalance)
	}
	if plan.WeeksRemaining != 0 {
		t.Fatalf("expected zero weeks remaining, got %d", plan.WeeksRemaining)
	}
}

func TestDeriveZeroHistoryIsOverdue(t *testing.T) {
	calc := NewCalculator(0, defaultPayday)
	plan := calc.Derive(testEnrollment("1000.00", "100.00"), nil, planNow)
	if plan.PaymentStatus != enums.PlanPaymentStatusOverdue {
		t.Fatalf("expected overdue with zero history, got %s", plan.PaymentStatus)
	}
}

func TestDeriveStalePaymentIsOverdue(t *testing.T) {
	calc := NewCalculator(0, defaultPayday)
	history := []models.StudentPayment{
		completedPayment("100.00", planNow.Add(-10*24*time.Hour)),
	}
	plan := calc.Derive(testEnrollment("1000.00", "100.00"), history, planNow)
	if plan.PaymentStatus != enums.PlanPaymentStatusOverdue {
		t.Fatalf("expected overdue for 10-day-old payment, got %s", plan.PaymentStatus)
	}
}

func TestDeriveDueOnPayday(t *testing.T) {
	calc := NewCalculator(0, defaultPayday)
	friday := time.Date(2025, time.August, 8, 12, 0, 0, 0, time.UTC)
	history := []models.StudentPayment{
		completedPayment("100.00", friday.Add(-2*24*time.Hour)),
	}
	plan := calc.Derive(testEnrollment("1000.00", "100.00"), history, friday)
	if plan.PaymentStatus != enums.PlanPaymentStatusDue {
		t.Fatalf("expected due on payday, got %s", plan.PaymentStatus)
	}
}

func TestDeriveCurrentMidWeek(t *testing.T) {
	calc := NewCalculator(0, defaultPayday)
	history := []models.StudentPayment{
		completedPayment("100.00", planNow.Add(-2*24*time.Hour)),
	}
	plan := calc.Derive(testEnrollment("1000.00", "100.00"), history, planNow)
	if plan.PaymentStatus != enums.PlanPaymentStatusCurrent {
		t.Fatalf("expected current, got %s", plan.PaymentStatus)
	}
}

func TestDeriveIgnoresIncompletePayments(t *testing.T) {
	calc := NewCalculator(0, defaultPayday)
	history := []models.StudentPayment{
		{Amount: decimal.RequireFromString("900.00"), Status: enums.PaymentStatusPending, CreatedAt: planNow.Add(-time.Hour)},
		{Amount: decimal.RequireFromString("50.00"), Status: enums.PaymentStatusFailed, CreatedAt: planNow.Add(-time.Hour)},
		completedPayment("100.00", planNow.Add(-2*24*time.Hour)),
	}
	plan := calc.Derive(testEnrollment("1000.00", "100.00"), history, planNow)
	if !plan.TotalPaid.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected only completed payments counted, got %s", plan.TotalPaid)
	}
	if plan.WeeksRemaining != 9 {
		t.Fatalf("expected 9 weeks remaining, got %d", plan.WeeksRemaining)
	}
}

func TestWeeksRemainingRoundsUp(t *testing.T) {
	calc := NewCalculator(0, defaultPayday)
	history := []models.StudentPayment{
		completedPayment("50.00", planNow.Add(-2*24*time.Hour)),
	}
	plan := calc.Derive(testEnrollment("1000.00", "300.00"), history, planNow)
	// 950 / 300 = 3.17 weeks, billed as 4
	if plan.WeeksRemaining != 4 {
		t.Fatalf("expected 4 weeks remaining, got %d", plan.WeeksRemaining)
	}
}

func TestWeeksRemainingZeroWeeklyAmount(t *testing.T) {
	calc := NewCalculator(0, defaultPayday)
	plan := calc.Derive(testEnrollment("1000.00", "0.00"), nil, planNow)
	if plan.WeeksRemaining != 0 {
		t.Fatalf("expected zero weeks for zero weekly amount, got %d", plan.WeeksRemaining)
	}
}
