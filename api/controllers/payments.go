package controllers

import (
	"net/http"

	"github.com/elevate-hq/elevate-backend/api/responses"
	"github.com/elevate-hq/elevate-backend/internal/paymentlinks"
	"github.com/elevate-hq/elevate-backend/internal/payments"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
	pkgerrors "github.com/elevate-hq/elevate-backend/pkg/errors"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
)

// PaymentPlan returns the caller's derived payment plan.
func PaymentPlan(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		studentID, err := studentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.Plan(r.Context(), studentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, plan)
	}
}

// PaymentLinkCreate issues a payment link for the caller's current week.
// Links are only issued when a payment is actually owed; a settled or
// midweek-current student gets a state conflict instead of a processor
// object that would go unused.
func PaymentLinkCreate(plans payments.Service, links paymentlinks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if plans == nil || links == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		studentID, err := studentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := plans.Plan(r.Context(), studentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch plan.PaymentStatus {
		case enums.PlanPaymentStatusDue, enums.PlanPaymentStatusOverdue:
		default:
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeStateConflict, "no payment is currently owed").
					WithDetails(map[string]any{"payment_status": plan.PaymentStatus}))
			return
		}

		result, err := links.Issue(r.Context(), studentID, plan.WeeklyPaymentAmount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
