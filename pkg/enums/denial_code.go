package enums

// DenialCode is the machine-readable reason a protected request was refused.
// UI layers branch on these codes instead of re-deriving billing logic.
type DenialCode string

const (
	DenialCodeNoLicense            DenialCode = "NO_LICENSE"
	DenialCodeTrialExpired         DenialCode = "TRIAL_EXPIRED"
	DenialCodeLicenseExpired       DenialCode = "LICENSE_EXPIRED"
	DenialCodeSubscriptionRequired DenialCode = "SUBSCRIPTION_REQUIRED"
	DenialCodeLicenseInactive      DenialCode = "LICENSE_INACTIVE"
	DenialCodeLimitReached         DenialCode = "LIMIT_REACHED"
)

// String implements fmt.Stringer.
func (d DenialCode) String() string {
	return string(d)
}
