package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/elevate-hq/elevate-backend/api/middleware"
	"github.com/elevate-hq/elevate-backend/api/responses"
	"github.com/elevate-hq/elevate-backend/internal/timeclock"
	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	pkgerrors "github.com/elevate-hq/elevate-backend/pkg/errors"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
)

func studentIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.StudentIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "student context missing")
	}
	studentID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid student id")
	}
	return studentID, nil
}

type timeEntryResponse struct {
	ID       uuid.UUID  `json:"id"`
	ClockIn  time.Time  `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out,omitempty"`
	Minutes  int        `json:"minutes"`
}

func timeEntryResponseFromModel(m *models.TimeEntry) timeEntryResponse {
	return timeEntryResponse{
		ID:       m.ID,
		ClockIn:  m.ClockIn,
		ClockOut: m.ClockOut,
		Minutes:  m.Minutes,
	}
}

// TimeclockEligibility previews the clock-in gate without creating an entry.
func TimeclockEligibility(svc timeclock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		studentID, err := studentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decision, err := svc.CanClockIn(r.Context(), studentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, decision)
	}
}

// TimeclockClockIn opens a time entry when the payment gate passes.
func TimeclockClockIn(svc timeclock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		studentID, err := studentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.ClockIn(r.Context(), studentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, timeEntryResponseFromModel(entry))
	}
}

// TimeclockClockOut closes the open time entry and records the minutes.
func TimeclockClockOut(svc timeclock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "timeclock service unavailable"))
			return
		}

		studentID, err := studentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.ClockOut(r.Context(), studentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, timeEntryResponseFromModel(entry))
	}
}
