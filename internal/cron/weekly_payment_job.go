package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/elevate-hq/elevate-backend/internal/notifications"
	"github.com/elevate-hq/elevate-backend/internal/paymentlinks"
	"github.com/elevate-hq/elevate-backend/internal/payments"
	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
)

const weeklyPaymentJobName = "weekly-payments"

type planService interface {
	ActiveEnrollments(ctx context.Context) ([]models.Enrollment, error)
	PlanForEnrollment(ctx context.Context, enrollment *models.Enrollment) (*payments.StudentPaymentPlan, error)
}

type linkIssuer interface {
	Issue(ctx context.Context, studentID uuid.UUID, amount decimal.Decimal) (*paymentlinks.Result, error)
}

type reminderSender interface {
	SendWeeklyReminder(ctx context.Context, to string, data notifications.ReminderData) error
}

// SweepError records one student's failure without aborting the batch.
type SweepError struct {
	StudentID uuid.UUID
	Err       error
}

// SweepResult summarizes one sweep cycle.
type SweepResult struct {
	Sent   int
	Failed int
	Errors []SweepError
}

// WeeklyPaymentJob iterates every active enrollment, issues the week's
// payment link, and sends the reminder email. Failures are isolated per
// student.
type WeeklyPaymentJob struct {
	plans        planService
	links        linkIssuer
	reminders    reminderSender
	dashboardURL string
	logg         *logger.Logger
}

// NewWeeklyPaymentJob builds the sweep job.
func NewWeeklyPaymentJob(plans planService, links linkIssuer, reminders reminderSender, dashboardURL string, logg *logger.Logger) (*WeeklyPaymentJob, error) {
	if plans == nil {
		return nil, fmt.Errorf("plan service required")
	}
	if links == nil {
		return nil, fmt.Errorf("link issuer required")
	}
	if reminders == nil {
		return nil, fmt.Errorf("reminder sender required")
	}
	return &WeeklyPaymentJob{
		plans:        plans,
		links:        links,
		reminders:    reminders,
		dashboardURL: dashboardURL,
		logg:         logg,
	}, nil
}

// Name implements Job.
func (j *WeeklyPaymentJob) Name() string { return weeklyPaymentJobName }

// Run implements Job. Per-student failures do not stop the sweep but are
// surfaced so the cycle is recorded as failed.
func (j *WeeklyPaymentJob) Run(ctx context.Context) error {
	result, err := j.Sweep(ctx)
	if err != nil {
		return err
	}
	if j.logg != nil {
		lctx := j.logg.WithFields(ctx, map[string]any{
			"sent":   result.Sent,
			"failed": result.Failed,
		})
		j.logg.Info(lctx, "weekly payment sweep finished")
	}
	var errs []error
	for _, sweepErr := range result.Errors {
		errs = append(errs, fmt.Errorf("student %s: %w", sweepErr.StudentID, sweepErr.Err))
	}
	return multierr.Combine(errs...)
}

// Sweep executes one pass over all active enrollments.
func (j *WeeklyPaymentJob) Sweep(ctx context.Context) (SweepResult, error) {
	enrollments, err := j.plans.ActiveEnrollments(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list active enrollments: %w", err)
	}

	var result SweepResult
	for i := range enrollments {
		enrollment := enrollments[i]
		sent, err := j.processStudent(ctx, &enrollment)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, SweepError{StudentID: enrollment.StudentID, Err: err})
			if j.logg != nil {
				sctx := j.logg.WithStudentID(ctx, enrollment.StudentID.String())
				j.logg.Error(sctx, "weekly payment sweep failed for student", err)
			}
			continue
		}
		if sent {
			result.Sent++
		}
	}
	return result, nil
}

func (j *WeeklyPaymentJob) processStudent(ctx context.Context, enrollment *models.Enrollment) (bool, error) {
	plan, err := j.plans.PlanForEnrollment(ctx, enrollment)
	if err != nil {
		return false, fmt.Errorf("derive plan: %w", err)
	}
	if plan.PaymentStatus == enums.PlanPaymentStatusPaidInFull {
		// settled students are skipped silently
		return false, nil
	}

	link, err := j.links.Issue(ctx, enrollment.StudentID, plan.WeeklyPaymentAmount)
	if err != nil {
		return false, fmt.Errorf("issue payment link: %w", err)
	}

	data := notifications.ReminderData{
		FullName:         enrollment.FullName,
		Amount:           plan.WeeklyPaymentAmount,
		RemainingBalance: plan.RemainingBalance,
		WeeksRemaining:   plan.WeeksRemaining,
		PaymentURL:       link.URL,
		DashboardURL:     j.dashboardURL,
	}
	if err := j.reminders.SendWeeklyReminder(ctx, enrollment.Email, data); err != nil {
		return false, fmt.Errorf("send reminder: %w", err)
	}
	return true, nil
}
