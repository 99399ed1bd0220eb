package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/elevate-hq/elevate-backend/api/responses"
	"github.com/elevate-hq/elevate-backend/internal/access"
	pkgerrors "github.com/elevate-hq/elevate-backend/pkg/errors"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
)

type accessChecker interface {
	CheckAccess(ctx context.Context, orgID uuid.UUID) (access.Resolution, error)
}

// License gates org-scoped routes behind a fresh access resolution. An
// authenticated user with no active org passes through; org features below
// simply have no org to act on. Every request re-resolves, so a status flip
// written by a webhook is honored on the very next call.
func License(checks accessChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if UserIDFromContext(ctx) == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			rawOrg := OrgIDFromContext(ctx)
			if rawOrg == "" {
				next.ServeHTTP(w, r)
				return
			}

			orgID, err := uuid.Parse(rawOrg)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid org id"))
				return
			}

			res, err := checks.CheckAccess(ctx, orgID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			if !res.HasAccess {
				code := res.Denial.Code(res.Tier)
				responses.WriteError(ctx, logg, w,
					pkgerrors.New(pkgerrors.CodeForbidden, "license does not permit access").
						WithDetails(map[string]any{"code": string(code)}))
				return
			}

			if logg != nil && len(res.Warnings) > 0 {
				wctx := logg.WithFields(ctx, map[string]any{
					"org_id":   orgID.String(),
					"warnings": res.Warnings,
				})
				logg.Warn(wctx, "license access granted with warnings")
			}

			next.ServeHTTP(w, r)
		})
	}
}
