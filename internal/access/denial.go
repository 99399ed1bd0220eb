package access

import (
	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

// DenialKind tags the structured reason access was refused. Callers branch on
// the tag, never on the human-readable message.
type DenialKind string

const (
	DenialNoLicense           DenialKind = "no_license"
	DenialCanceled            DenialKind = "canceled"
	DenialSuspended           DenialKind = "suspended"
	DenialUnknownTier         DenialKind = "unknown_tier"
	DenialMissingExpiry       DenialKind = "missing_expiry"
	DenialExpired             DenialKind = "expired"
	DenialMissingSubscription DenialKind = "missing_subscription"
	DenialPeriodLapsed        DenialKind = "period_lapsed"
)

// Denial carries the tagged refusal plus a diagnostic message. The message is
// for logs; the kind drives the public denial code.
type Denial struct {
	Kind    DenialKind
	Message string
}

func deny(kind DenialKind, message string) *Denial {
	return &Denial{Kind: kind, Message: message}
}

// configuration errors must not leak classification detail to clients.
func (d *Denial) isConfigurationError() bool {
	if d == nil {
		return false
	}
	switch d.Kind {
	case DenialUnknownTier, DenialMissingExpiry, DenialMissingSubscription:
		return true
	default:
		return false
	}
}

// Code maps the tagged denial plus the license tier to the public taxonomy.
func (d *Denial) Code(tier enums.LicenseTier) enums.DenialCode {
	if d == nil {
		return ""
	}
	if d.isConfigurationError() {
		return enums.DenialCodeLicenseInactive
	}
	switch d.Kind {
	case DenialNoLicense:
		return enums.DenialCodeNoLicense
	case DenialCanceled, DenialSuspended:
		return enums.DenialCodeLicenseInactive
	case DenialExpired:
		if tier == enums.LicenseTierTrial {
			return enums.DenialCodeTrialExpired
		}
		return enums.DenialCodeLicenseExpired
	case DenialPeriodLapsed:
		return enums.DenialCodeSubscriptionRequired
	default:
		return enums.DenialCodeLicenseInactive
	}
}
