package quota

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevate-hq/elevate-backend/internal/access"
	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
	pkgerrors "github.com/elevate-hq/elevate-backend/pkg/errors"
)

type usageRepository interface {
	FindByOrgID(ctx context.Context, orgID uuid.UUID) (*models.LicenseUsage, error)
	Increment(ctx context.Context, orgID uuid.UUID, resource enums.QuotaResource) (bool, error)
	Decrement(ctx context.Context, orgID uuid.UUID, resource enums.QuotaResource) error
}

type accessChecker interface {
	CheckAccess(ctx context.Context, orgID uuid.UUID) (access.Resolution, error)
}

// Check is the outcome of one quota question. Code is empty when allowed;
// an inactive license carries the authority's code, an exhausted counter
// carries LIMIT_REACHED.
type Check struct {
	Allowed bool
	Current int
	Limit   int
	Code    enums.DenialCode
}

// Service answers quota questions and mutates counters, always behind a
// passing access resolution.
type Service interface {
	CheckLimit(ctx context.Context, orgID uuid.UUID, resource enums.QuotaResource) (Check, error)
	Increment(ctx context.Context, orgID uuid.UUID, resource enums.QuotaResource) (Check, error)
	Decrement(ctx context.Context, orgID uuid.UUID, resource enums.QuotaResource) error
}

type service struct {
	repo   usageRepository
	checks accessChecker
}

// NewService builds the quota service.
func NewService(repo usageRepository, checks accessChecker) (Service, error) {
	if repo == nil {
		return nil, errors.New("usage repository required")
	}
	if checks == nil {
		return nil, errors.New("access checker required")
	}
	return &service{repo: repo, checks: checks}, nil
}

func (s *service) CheckLimit(ctx context.Context, orgID uuid.UUID, resource enums.QuotaResource) (Check, error) {
	if !resource.IsValid() {
		return Check{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid quota resource")
	}

	denied, check, err := s.resolveFirst(ctx, orgID)
	if err != nil || denied {
		return check, err
	}

	usage, err := s.repo.FindByOrgID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Check{}, pkgerrors.New(pkgerrors.CodeNotFound, "usage record not found")
		}
		return Check{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup usage")
	}

	current, limit := countersFor(usage, resource)
	if limit == -1 || current < limit {
		return Check{Allowed: true, Current: current, Limit: limit}, nil
	}
	return Check{Current: current, Limit: limit, Code: enums.DenialCodeLimitReached}, nil
}

func (s *service) Increment(ctx context.Context, orgID uuid.UUID, resource enums.QuotaResource) (Check, error) {
	if !resource.IsValid() {
		return Check{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid quota resource")
	}

	denied, check, err := s.resolveFirst(ctx, orgID)
	if err != nil || denied {
		return check, err
	}

	ok, err := s.repo.Increment(ctx, orgID, resource)
	if err != nil {
		return Check{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment usage")
	}

	usage, err := s.repo.FindByOrgID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Check{}, pkgerrors.New(pkgerrors.CodeNotFound, "usage record not found")
		}
		return Check{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup usage")
	}
	current, limit := countersFor(usage, resource)

	if !ok {
		return Check{Current: current, Limit: limit, Code: enums.DenialCodeLimitReached}, nil
	}
	return Check{Allowed: true, Current: current, Limit: limit}, nil
}

func (s *service) Decrement(ctx context.Context, orgID uuid.UUID, resource enums.QuotaResource) error {
	if !resource.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid quota resource")
	}
	if orgID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "org identity missing")
	}
	if err := s.repo.Decrement(ctx, orgID, resource); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement usage")
	}
	return nil
}

// resolveFirst short-circuits quota questions for orgs whose license is not
// active; the caller receives the authority's code, never a quota code.
func (s *service) resolveFirst(ctx context.Context, orgID uuid.UUID) (bool, Check, error) {
	res, err := s.checks.CheckAccess(ctx, orgID)
	if err != nil {
		return true, Check{}, err
	}
	if !res.HasAccess {
		return true, Check{Code: res.Denial.Code(res.Tier)}, nil
	}
	return false, Check{}, nil
}

func countersFor(usage *models.LicenseUsage, resource enums.QuotaResource) (current, limit int) {
	switch resource {
	case enums.QuotaResourceStudents:
		return usage.StudentCount, usage.StudentLimit
	case enums.QuotaResourceAdmins:
		return usage.AdminCount, usage.AdminLimit
	case enums.QuotaResourcePrograms:
		return usage.ProgramCount, usage.ProgramLimit
	default:
		return 0, 0
	}
}
