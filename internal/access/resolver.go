package access

import (
	"fmt"
	"time"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

const defaultGracePeriod = 7 * 24 * time.Hour

// Resolution is the full access verdict for one license at one instant.
// ExpiresAt carries whichever boundary timestamp applied so callers can
// compute days remaining without re-deriving authority.
type Resolution struct {
	HasAccess bool
	Authority enums.BillingAuthority
	Tier      enums.LicenseTier
	Denial    *Denial
	ExpiresAt *time.Time
	Warnings  []string
}

// Resolver classifies licenses into a billing authority and applies its
// expiration rules. Stateless; the clock is always injected.
type Resolver struct {
	grace time.Duration
}

// NewResolver builds a resolver with the given past_due grace window.
// A non-positive grace falls back to the 7-day default.
func NewResolver(grace time.Duration) Resolver {
	if grace <= 0 {
		grace = defaultGracePeriod
	}
	return Resolver{grace: grace}
}

// AuthorityForTier is the exhaustive tier classification table. The unknown
// arm always denies; it is never treated as a default authority.
func AuthorityForTier(tier enums.LicenseTier) (enums.BillingAuthority, bool) {
	switch tier {
	case enums.LicenseTierTrial, enums.LicenseTierLifetime, enums.LicenseTierFounder:
		return enums.BillingAuthorityDB, true
	case enums.LicenseTierSubscription:
		return enums.BillingAuthorityStripe, true
	default:
		return "", false
	}
}

// Resolve applies the rule chain in order; the first matching rule wins.
// Cancellation and suspension are terminal and cannot be overridden by any
// future-dated boundary.
func (r Resolver) Resolve(license *models.License, now time.Time) Resolution {
	if license == nil {
		return Resolution{Denial: deny(DenialNoLicense, "no license on record")}
	}

	res := Resolution{Tier: license.Tier}

	if license.CanceledAt != nil || license.Status == enums.LicenseStatusCanceled {
		res.Denial = deny(DenialCanceled, "license canceled")
		return res
	}
	if license.SuspendedAt != nil || license.Status == enums.LicenseStatusSuspended {
		res.Denial = deny(DenialSuspended, "license suspended")
		return res
	}

	authority, ok := AuthorityForTier(license.Tier)
	if !ok {
		res.Denial = deny(DenialUnknownTier, fmt.Sprintf("unclassifiable tier %q", license.Tier))
		return res
	}
	res.Authority = authority

	switch authority {
	case enums.BillingAuthorityDB:
		return r.resolveDBAuthoritative(license, now, res)
	case enums.BillingAuthorityStripe:
		return r.resolveStripeAuthoritative(license, now, res)
	default:
		res.Denial = deny(DenialUnknownTier, fmt.Sprintf("unclassifiable authority for tier %q", license.Tier))
		return res
	}
}

func (r Resolver) resolveDBAuthoritative(license *models.License, now time.Time, res Resolution) Resolution {
	// A trial/lifetime tier with no expiration is a configuration error,
	// not perpetual access.
	if license.ExpiresAt == nil {
		res.Denial = deny(DenialMissingExpiry, "db-authoritative license missing expires_at")
		return res
	}
	res.ExpiresAt = license.ExpiresAt
	if now.Before(*license.ExpiresAt) {
		res.HasAccess = true
		return res
	}
	res.Denial = deny(DenialExpired, "license expired")
	return res
}

func (r Resolver) resolveStripeAuthoritative(license *models.License, now time.Time, res Resolution) Resolution {
	if license.StripeSubscriptionID == nil || *license.StripeSubscriptionID == "" || license.CurrentPeriodEnd == nil {
		res.Denial = deny(DenialMissingSubscription, "stripe-authoritative license missing subscription ref or period end")
		return res
	}
	res.ExpiresAt = license.CurrentPeriodEnd
	if now.Before(*license.CurrentPeriodEnd) {
		res.HasAccess = true
		return res
	}
	if license.Status == enums.LicenseStatusPastDue && now.Before(license.CurrentPeriodEnd.Add(r.grace)) {
		res.HasAccess = true
		res.Warnings = append(res.Warnings, "payment overdue - grace period")
		return res
	}
	res.Denial = deny(DenialPeriodLapsed, "subscription period lapsed")
	return res
}
