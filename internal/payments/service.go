package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	pkgerrors "github.com/elevate-hq/elevate-backend/pkg/errors"
)

type planRepository interface {
	FindActiveEnrollment(ctx context.Context, studentID uuid.UUID) (*models.Enrollment, error)
	ListActiveEnrollments(ctx context.Context) ([]models.Enrollment, error)
	ListCompletedPayments(ctx context.Context, studentID uuid.UUID) ([]models.StudentPayment, error)
}

// Service derives payment plans on demand.
type Service interface {
	Plan(ctx context.Context, studentID uuid.UUID) (*StudentPaymentPlan, error)
	PlanForEnrollment(ctx context.Context, enrollment *models.Enrollment) (*StudentPaymentPlan, error)
	ActiveEnrollments(ctx context.Context) ([]models.Enrollment, error)
}

type service struct {
	repo planRepository
	calc Calculator
	now  func() time.Time
}

// NewService builds the payment plan service.
func NewService(repo planRepository, calc Calculator, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, errors.New("payments repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, calc: calc, now: now}, nil
}

func (s *service) Plan(ctx context.Context, studentID uuid.UUID) (*StudentPaymentPlan, error) {
	if studentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "student identity missing")
	}

	enrollment, err := s.repo.FindActiveEnrollment(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active enrollment found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup enrollment")
	}
	return s.PlanForEnrollment(ctx, enrollment)
}

func (s *service) PlanForEnrollment(ctx context.Context, enrollment *models.Enrollment) (*StudentPaymentPlan, error) {
	if enrollment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "enrollment required")
	}

	history, err := s.repo.ListCompletedPayments(ctx, enrollment.StudentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}

	plan := s.calc.Derive(enrollment, history, s.now())
	return &plan, nil
}

func (s *service) ActiveEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	rows, err := s.repo.ListActiveEnrollments(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enrollments")
	}
	return rows, nil
}
