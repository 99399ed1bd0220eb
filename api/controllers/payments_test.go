package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elevate-hq/elevate-backend/api/middleware"
	"github.com/elevate-hq/elevate-backend/internal/paymentlinks"
	"github.com/elevate-hq/elevate-backend/internal/payments"
	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
	"github.com/elevate-hq/elevate-backend/pkg/logger"
)

type testPaymentsService struct {
	plan    *payments.StudentPaymentPlan
	planErr error
}

func (s *testPaymentsService) Plan(ctx context.Context, studentID uuid.UUID) (*payments.StudentPaymentPlan, error) {
	if s.planErr != nil {
		return nil, s.planErr
	}
	return s.plan, nil
}

func (s *testPaymentsService) PlanForEnrollment(ctx context.Context, enrollment *models.Enrollment) (*payments.StudentPaymentPlan, error) {
	return s.plan, s.planErr
}

func (s *testPaymentsService) ActiveEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	return nil, nil
}

type testLinksService struct {
	issued int
	result *paymentlinks.Result
	err    error
}

func (s *testLinksService) Issue(ctx context.Context, studentID uuid.UUID, amount decimal.Decimal) (*paymentlinks.Result, error) {
	s.issued++
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &paymentlinks.Result{URL: "https://pay.example/abc", LinkID: uuid.New(), Amount: amount}, nil
}

func controllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func studentRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithStudentID(ctx, uuid.NewString())
	return req.WithContext(ctx)
}

func testPlan(status enums.PlanPaymentStatus) *payments.StudentPaymentPlan {
	return &payments.StudentPaymentPlan{
		StudentID:           uuid.New(),
		WeeklyPaymentAmount: decimal.RequireFromString("150.00"),
		RemainingBalance:    decimal.RequireFromString("900.00"),
		WeeksRemaining:      6,
		PaymentStatus:       status,
	}
}

func TestPaymentLinkCreateIssuesWhenOverdue(t *testing.T) {
	plans := &testPaymentsService{plan: testPlan(enums.PlanPaymentStatusOverdue)}
	links := &testLinksService{}

	resp := httptest.NewRecorder()
	PaymentLinkCreate(plans, links, controllerLogger())(resp, studentRequest(http.MethodPost, "/api/v1/payments/link"))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if links.issued != 1 {
		t.Fatalf("expected one link issued, got %d", links.issued)
	}
	var envelope struct {
		Data paymentlinks.Result `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.URL == "" {
		t.Fatal("response missing payment url")
	}
}

func TestPaymentLinkCreateRejectsSettledStudent(t *testing.T) {
	plans := &testPaymentsService{plan: testPlan(enums.PlanPaymentStatusPaidInFull)}
	links := &testLinksService{}

	resp := httptest.NewRecorder()
	PaymentLinkCreate(plans, links, controllerLogger())(resp, studentRequest(http.MethodPost, "/api/v1/payments/link"))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if links.issued != 0 {
		t.Fatal("a settled student must not produce a processor object")
	}
}

func TestPaymentLinkCreateRejectsCurrentStudent(t *testing.T) {
	plans := &testPaymentsService{plan: testPlan(enums.PlanPaymentStatusCurrent)}
	links := &testLinksService{}

	resp := httptest.NewRecorder()
	PaymentLinkCreate(plans, links, controllerLogger())(resp, studentRequest(http.MethodPost, "/api/v1/payments/link"))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if links.issued != 0 {
		t.Fatal("a current student must not produce a processor object")
	}
}

func TestPaymentLinkCreateRequiresStudentContext(t *testing.T) {
	plans := &testPaymentsService{plan: testPlan(enums.PlanPaymentStatusOverdue)}
	links := &testLinksService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/link", nil)
	resp := httptest.NewRecorder()
	PaymentLinkCreate(plans, links, controllerLogger())(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if links.issued != 0 {
		t.Fatal("missing student context must not issue links")
	}
}

func TestPaymentPlanReturnsDerivedPlan(t *testing.T) {
	plans := &testPaymentsService{plan: testPlan(enums.PlanPaymentStatusDue)}

	resp := httptest.NewRecorder()
	PaymentPlan(plans, controllerLogger())(resp, studentRequest(http.MethodGet, "/api/v1/payments/plan"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var envelope struct {
		Data payments.StudentPaymentPlan `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.PaymentStatus != enums.PlanPaymentStatusDue {
		t.Fatalf("expected due plan, got %s", envelope.Data.PaymentStatus)
	}
}
