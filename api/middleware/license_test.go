package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/elevate-hq/elevate-backend/internal/access"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
)

type stubAccessChecker struct {
	resolution access.Resolution
	err        error
	calls      int
}

func (s *stubAccessChecker) CheckAccess(ctx context.Context, orgID uuid.UUID) (access.Resolution, error) {
	s.calls++
	if s.err != nil {
		return access.Resolution{}, s.err
	}
	return s.resolution, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestLicenseRequiresUser(t *testing.T) {
	checks := &stubAccessChecker{}
	var called bool
	handler := License(checks, testLogger())(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timeclock/eligibility", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if called {
		t.Fatal("handler must not run without a user")
	}
	if checks.calls != 0 {
		t.Fatal("access must not be resolved without a user")
	}
}

func TestLicensePassesThroughWithoutOrg(t *testing.T) {
	checks := &stubAccessChecker{}
	var called bool
	handler := License(checks, testLogger())(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timeclock/eligibility", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !called {
		t.Fatal("user without an org must pass through")
	}
	if checks.calls != 0 {
		t.Fatal("no org means no resolution")
	}
}

func TestLicenseDenialCarriesCode(t *testing.T) {
	checks := &stubAccessChecker{
		resolution: access.Resolution{
			Tier:   enums.LicenseTierTrial,
			Denial: &access.Denial{Kind: access.DenialExpired, Message: "license expired"},
		},
	}
	var called bool
	handler := License(checks, testLogger())(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timeclock/eligibility", nil)
	ctx := WithUserID(req.Context(), uuid.NewString())
	ctx = WithOrgID(ctx, uuid.NewString())
	req = req.WithContext(ctx)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if called {
		t.Fatal("handler must not run when access is denied")
	}

	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Details["code"] != string(enums.DenialCodeTrialExpired) {
		t.Fatalf("expected TRIAL_EXPIRED detail, got %v", envelope.Error.Details)
	}
}

func TestLicenseAllowsActiveOrg(t *testing.T) {
	checks := &stubAccessChecker{
		resolution: access.Resolution{
			HasAccess: true,
			Tier:      enums.LicenseTierSubscription,
			Authority: enums.BillingAuthorityStripe,
		},
	}
	var called bool
	handler := License(checks, testLogger())(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timeclock/eligibility", nil)
	ctx := WithUserID(req.Context(), uuid.NewString())
	ctx = WithOrgID(ctx, uuid.NewString())
	req = req.WithContext(ctx)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || !called {
		t.Fatalf("expected pass-through, got %d called=%v", resp.Code, called)
	}
}

func TestLicenseStoreFailureDeniesHard(t *testing.T) {
	checks := &stubAccessChecker{err: errors.New("store offline")}
	var called bool
	handler := License(checks, testLogger())(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timeclock/eligibility", nil)
	ctx := WithUserID(req.Context(), uuid.NewString())
	ctx = WithOrgID(ctx, uuid.NewString())
	req = req.WithContext(ctx)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code == http.StatusOK || called {
		t.Fatalf("a store failure must never allow the request through, got %d", resp.Code)
	}
}
