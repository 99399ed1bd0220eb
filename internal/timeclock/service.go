package timeclock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/elevate-hq/elevate-backend/internal/payments"
	"github.com/elevate-hq/elevate-backend/internal/paymentlinks"
	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
	pkgerrors "github.com/elevate-hq/elevate-backend/pkg/errors"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
)

const reasonNoEnrollment = "no active enrollment found"

type planService interface {
	Plan(ctx context.Context, studentID uuid.UUID) (*payments.StudentPaymentPlan, error)
}

type linkIssuer interface {
	Issue(ctx context.Context, studentID uuid.UUID, amount decimal.Decimal) (*paymentlinks.Result, error)
}

type entriesRepository interface {
	Create(ctx context.Context, entry *models.TimeEntry) (*models.TimeEntry, error)
	FindOpenEntry(ctx context.Context, studentID uuid.UUID) (*models.TimeEntry, error)
	Close(ctx context.Context, id uuid.UUID, clockOut time.Time, minutes int) error
}

// Decision is the clock-in gate's answer. A denial for overdue payment
// carries the amount due and a fresh payment link so it is immediately
// actionable.
type Decision struct {
	Allowed    bool             `json:"allowed"`
	Reason     string           `json:"reason,omitempty"`
	AmountDue  *decimal.Decimal `json:"amount_due,omitempty"`
	PaymentURL string           `json:"payment_url,omitempty"`
}

// Service gates the physical clock-in action behind payment currency and
// manages the resulting time entries.
type Service interface {
	CanClockIn(ctx context.Context, studentID uuid.UUID) (Decision, error)
	ClockIn(ctx context.Context, studentID uuid.UUID) (*models.TimeEntry, error)
	ClockOut(ctx context.Context, studentID uuid.UUID) (*models.TimeEntry, error)
}

type service struct {
	plans   planService
	links   linkIssuer
	entries entriesRepository
	now     func() time.Time
	logg    *logger.Logger
}

// NewService builds the timeclock service.
func NewService(plans planService, links linkIssuer, entries entriesRepository, now func() time.Time, logg *logger.Logger) (Service, error) {
	if plans == nil {
		return nil, errors.New("plan service required")
	}
	if links == nil {
		return nil, errors.New("link issuer required")
	}
	if entries == nil {
		return nil, errors.New("time entry repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{plans: plans, links: links, entries: entries, now: now, logg: logg}, nil
}

func (s *service) CanClockIn(ctx context.Context, studentID uuid.UUID) (Decision, error) {
	if studentID == uuid.Nil {
		return Decision{}, pkgerrors.New(pkgerrors.CodeValidation, "student identity missing")
	}

	plan, err := s.plans.Plan(ctx, studentID)
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeNotFound {
			return Decision{Reason: reasonNoEnrollment}, nil
		}
		return Decision{}, err
	}

	switch plan.PaymentStatus {
	case enums.PlanPaymentStatusPaidInFull:
		return Decision{Allowed: true}, nil
	case enums.PlanPaymentStatusOverdue:
		decision := Decision{
			Reason:    "weekly payment overdue",
			AmountDue: &plan.WeeklyPaymentAmount,
		}
		// eager issuance makes the denial actionable; a failure here still
		// denies, just without a url
		result, err := s.links.Issue(ctx, studentID, plan.WeeklyPaymentAmount)
		if err != nil {
			if s.logg != nil {
				ctx = s.logg.WithStudentID(ctx, studentID.String())
				ctx = s.logg.WithField(ctx, "error", err.Error())
				s.logg.Warn(ctx, "payment link issuance failed during clock-in denial")
			}
			return decision, nil
		}
		decision.PaymentURL = result.URL
		return decision, nil
	default:
		// due-but-not-overdue never blocks the physical action
		return Decision{Allowed: true}, nil
	}
}

func (s *service) ClockIn(ctx context.Context, studentID uuid.UUID) (*models.TimeEntry, error) {
	decision, err := s.CanClockIn(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "clock-in blocked").WithDetails(decision)
	}

	if _, err := s.entries.FindOpenEntry(ctx, studentID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already clocked in")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup open time entry")
	}

	entry := &models.TimeEntry{
		ID:        uuid.New(),
		StudentID: studentID,
		ClockIn:   s.now(),
	}
	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create time entry")
	}
	return created, nil
}

func (s *service) ClockOut(ctx context.Context, studentID uuid.UUID) (*models.TimeEntry, error) {
	if studentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "student identity missing")
	}

	entry, err := s.entries.FindOpenEntry(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no open time entry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup open time entry")
	}

	clockOut := s.now()
	minutes := int(clockOut.Sub(entry.ClockIn).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	if err := s.entries.Close(ctx, entry.ID, clockOut, minutes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close time entry")
	}

	entry.ClockOut = &clockOut
	entry.Minutes = minutes
	return entry, nil
}
