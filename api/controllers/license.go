package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elevate-hq/elevate-backend/api/middleware"
	"github.com/elevate-hq/elevate-backend/api/responses"
	"github.com/elevate-hq/elevate-backend/api/validators"
	"github.com/elevate-hq/elevate-backend/internal/access"
	"github.com/elevate-hq/elevate-backend/internal/quota"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
	pkgerrors "github.com/elevate-hq/elevate-backend/pkg/errors"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
)

type accessResponse struct {
	Allowed   bool       `json:"allowed"`
	Tier      string     `json:"tier,omitempty"`
	Authority string     `json:"authority,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
	Code      string     `json:"code,omitempty"`
}

func accessResponseFromResolution(res access.Resolution) accessResponse {
	out := accessResponse{
		Allowed:   res.HasAccess,
		Tier:      res.Tier.String(),
		Authority: res.Authority.String(),
		ExpiresAt: res.ExpiresAt,
		Warnings:  res.Warnings,
	}
	if res.Denial != nil {
		out.Code = string(res.Denial.Code(res.Tier))
	}
	return out
}

func orgIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.OrgIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "org context missing")
	}
	orgID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid org id")
	}
	return orgID, nil
}

// LicenseAccess reports the caller org's current access verdict.
func LicenseAccess(svc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := svc.CheckAccess(r.Context(), orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, accessResponseFromResolution(res))
	}
}

type usageResponse struct {
	Resource string `json:"resource"`
	Allowed  bool   `json:"allowed"`
	Current  int    `json:"current"`
	Limit    int    `json:"limit"`
	Code     string `json:"code,omitempty"`
}

// LicenseUsage answers a quota question for one resource.
func LicenseUsage(svc quota.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quota service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resource, err := enums.ParseQuotaResource(strings.TrimSpace(r.URL.Query().Get("resource")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid quota resource"))
			return
		}

		check, err := svc.CheckLimit(r.Context(), orgID, resource)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, usageResponse{
			Resource: resource.String(),
			Allowed:  check.Allowed,
			Current:  check.Current,
			Limit:    check.Limit,
			Code:     string(check.Code),
		})
	}
}

type migrateTierRequest struct {
	NewTier   string     `json:"new_tier" validate:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// LicenseMigrateTier moves an org's license to a new tier. Admin only; the
// target expiration is always explicit, never inferred.
func LicenseMigrateTier(svc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		if middleware.RoleFromContext(r.Context()) != enums.MemberRoleAdmin.String() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload migrateTierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tier, err := enums.ParseLicenseTier(strings.TrimSpace(payload.NewTier))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid license tier"))
			return
		}

		license, err := svc.MigrateTier(r.Context(), orgID, access.MigrateTierInput{
			NewTier:   tier,
			ExpiresAt: payload.ExpiresAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"org_id":     license.OrgID,
			"tier":       license.Tier,
			"status":     license.Status,
			"expires_at": license.ExpiresAt,
		})
	}
}
