package access

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
	pkgerrors "github.com/elevate-hq/elevate-backend/pkg/errors"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
	"github.com/elevate-hq/elevate-backend/pkg/metrics"
)

type licensesRepository interface {
	FindByOrgID(ctx context.Context, orgID uuid.UUID) (*models.License, error)
	Update(ctx context.Context, license *models.License) error
}

// Service resolves org access and performs explicit tier migrations.
type Service interface {
	CheckAccess(ctx context.Context, orgID uuid.UUID) (Resolution, error)
	MigrateTier(ctx context.Context, orgID uuid.UUID, input MigrateTierInput) (*models.License, error)
}

type service struct {
	repo     licensesRepository
	resolver Resolver
	now      func() time.Time
	logg     *logger.Logger
	metrics  *metrics.AccessMetrics
}

// MigrateTierInput holds the admin-requested tier change.
type MigrateTierInput struct {
	NewTier   enums.LicenseTier
	ExpiresAt *time.Time
}

// NewService builds the access service. Verdicts are never cached; every
// call re-resolves against the store so webhook-driven status flips take
// effect immediately.
func NewService(repo licensesRepository, resolver Resolver, now func() time.Time, logg *logger.Logger, m *metrics.AccessMetrics) (Service, error) {
	if repo == nil {
		return nil, errors.New("license repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, resolver: resolver, now: now, logg: logg, metrics: m}, nil
}

func (s *service) CheckAccess(ctx context.Context, orgID uuid.UUID) (Resolution, error) {
	if orgID == uuid.Nil {
		return Resolution{}, pkgerrors.New(pkgerrors.CodeValidation, "org identity missing")
	}

	license, err := s.repo.FindByOrgID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res := s.resolver.Resolve(nil, s.now())
			s.record(res)
			return res, nil
		}
		// store unavailability is a hard denial, never a silent allow
		return Resolution{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup license")
	}

	res := s.resolver.Resolve(license, s.now())
	s.record(res)
	return res, nil
}

func (s *service) MigrateTier(ctx context.Context, orgID uuid.UUID, input MigrateTierInput) (*models.License, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "org identity missing")
	}
	if !input.NewTier.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid license tier")
	}

	license, err := s.repo.FindByOrgID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "license not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup license")
	}

	targetAuthority, ok := AuthorityForTier(input.NewTier)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid license tier")
	}

	switch targetAuthority {
	case enums.BillingAuthorityDB:
		// The DB boundary must be supplied explicitly; migration never
		// infers an expiration from subscription state.
		if input.ExpiresAt == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "expires_at is required for a db-authoritative tier")
		}
		license.ExpiresAt = input.ExpiresAt
	case enums.BillingAuthorityStripe:
		if license.StripeSubscriptionID == nil || *license.StripeSubscriptionID == "" || license.CurrentPeriodEnd == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "stripe subscription refs must exist before migrating to the subscription tier")
		}
	}

	previousTier := license.Tier
	license.Tier = input.NewTier

	if err := s.repo.Update(ctx, license); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update license tier")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"org_id":    orgID.String(),
			"from_tier": previousTier.String(),
			"to_tier":   input.NewTier.String(),
			"authority": targetAuthority.String(),
		})
		s.logg.Info(ctx, "license tier migrated")
	}
	return license, nil
}

func (s *service) record(res Resolution) {
	if s.metrics == nil {
		return
	}
	if res.HasAccess {
		s.metrics.IncAllowed(res.Tier.String())
		return
	}
	s.metrics.IncDenied(res.Denial.Code(res.Tier).String())
}
