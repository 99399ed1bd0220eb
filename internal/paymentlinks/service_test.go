package paymentlinks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	pkgerrors "github.com/elevate-hq/elevate-backend/pkg/errors"
)

type stubStripeClient struct {
	priceParams *stripe.PriceParams
	priceErr    error
	linkParams  *stripe.PaymentLinkParams
	linkErr     error
	priceCalls  int
	linkCalls   int
}

func (s *stubStripeClient) CreatePrice(ctx context.Context, params *stripe.PriceParams) (*stripe.Price, error) {
	s.priceCalls++
	s.priceParams = params
	if s.priceErr != nil {
		return nil, s.priceErr
	}
	return &stripe.Price{ID: "price_123"}, nil
}

func (s *stubStripeClient) CreatePaymentLink(ctx context.Context, params *stripe.PaymentLinkParams) (*stripe.PaymentLink, error) {
	s.linkCalls++
	s.linkParams = params
	if s.linkErr != nil {
		return nil, s.linkErr
	}
	return &stripe.PaymentLink{ID: "plink_123", URL: "https://pay.example/plink_123"}, nil
}

type stubLinksRepo struct {
	created        *models.PaymentLink
	createErr      error
	superseded     int
	supersedeErr   error
	recordsByID    map[uuid.UUID]*models.PaymentLink
	supersededOrgs []uuid.UUID
}

func (s *stubLinksRepo) CreateWithTx(tx *gorm.DB, link *models.PaymentLink) (*models.PaymentLink, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = link
	if s.recordsByID == nil {
		s.recordsByID = map[uuid.UUID]*models.PaymentLink{}
	}
	s.recordsByID[link.ID] = link
	return link, nil
}

func (s *stubLinksRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentLink, error) {
	if link, ok := s.recordsByID[id]; ok {
		return link, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLinksRepo) MarkSupersededWithTx(tx *gorm.DB, studentID uuid.UUID) error {
	if s.supersedeErr != nil {
		return s.supersedeErr
	}
	s.superseded++
	s.supersededOrgs = append(s.supersededOrgs, studentID)
	return nil
}

type stubTxRunner struct {
	calls int
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

func newIssuerForTests(client *stubStripeClient, repo *stubLinksRepo, now time.Time) Service {
	if client == nil {
		client = &stubStripeClient{}
	}
	if repo == nil {
		repo = &stubLinksRepo{}
	}
	svc, err := NewService(client, repo, &stubTxRunner{}, 0, "https://www.elevate.training/apprentice", func() time.Time { return now })
	if err != nil {
		panic(err)
	}
	return svc
}

func TestIssueRoundTripWithSevenDayExpiry(t *testing.T) {
	now := time.Date(2025, time.August, 5, 9, 30, 0, 0, time.UTC)
	client := &stubStripeClient{}
	repo := &stubLinksRepo{}
	svc := newIssuerForTests(client, repo, now)
	studentID := uuid.New()
	amount := decimal.RequireFromString("150.00")

	result, err := svc.Issue(context.Background(), studentID, amount)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if result.URL != "https://pay.example/plink_123" {
		t.Fatalf("unexpected url %q", result.URL)
	}

	stored, err := repo.FindByID(context.Background(), result.LinkID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if !stored.Amount.Equal(amount) {
		t.Fatalf("expected amount %s, got %s", amount, stored.Amount)
	}
	if stored.StudentID != studentID {
		t.Fatalf("expected student %s, got %s", studentID, stored.StudentID)
	}
	if want := now.Add(7 * 24 * time.Hour); !stored.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %s, got %s", want, stored.ExpiresAt)
	}
}

func TestIssueBuildsPriceAndLinkParams(t *testing.T) {
	now := time.Date(2025, time.August, 5, 9, 30, 0, 0, time.UTC)
	client := &stubStripeClient{}
	svc := newIssuerForTests(client, nil, now)
	studentID := uuid.New()

	if _, err := svc.Issue(context.Background(), studentID, decimal.RequireFromString("150.00")); err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if client.priceParams == nil || client.priceParams.UnitAmount == nil || *client.priceParams.UnitAmount != 15000 {
		t.Fatalf("expected 15000 cents, got %+v", client.priceParams)
	}
	if client.priceParams.ProductData == nil || *client.priceParams.ProductData.Name != lineItemName {
		t.Fatalf("expected line item name %q", lineItemName)
	}

	params := client.linkParams
	if params == nil || len(params.LineItems) != 1 || *params.LineItems[0].Price != "price_123" {
		t.Fatalf("expected link bound to created price, got %+v", params)
	}
	if params.Metadata["student_id"] != studentID.String() {
		t.Fatalf("expected student_id metadata, got %v", params.Metadata)
	}
	if params.Metadata["type"] != linkTypeWeeklyPayment {
		t.Fatalf("expected type metadata, got %v", params.Metadata)
	}
	if params.Metadata["week"] != "week of Aug 4, 2025" {
		t.Fatalf("unexpected week metadata %q", params.Metadata["week"])
	}
	if params.AfterCompletion == nil || *params.AfterCompletion.Redirect.URL != "https://www.elevate.training/apprentice" {
		t.Fatalf("expected redirect to the apprentice dashboard")
	}
}

func TestIssueSupersedesPreviousLinks(t *testing.T) {
	repo := &stubLinksRepo{}
	svc := newIssuerForTests(nil, repo, time.Now())

	if _, err := svc.Issue(context.Background(), uuid.New(), decimal.RequireFromString("100.00")); err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if repo.superseded != 1 {
		t.Fatalf("expected previous links superseded once, got %d", repo.superseded)
	}
}

func TestIssueProcessorFailureSingleAttempt(t *testing.T) {
	client := &stubStripeClient{linkErr: errors.New("stripe unavailable")}
	repo := &stubLinksRepo{}
	svc := newIssuerForTests(client, repo, time.Now())

	_, err := svc.Issue(context.Background(), uuid.New(), decimal.RequireFromString("100.00"))
	if err == nil {
		t.Fatalf("expected error on processor failure")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if client.linkCalls != 1 {
		t.Fatalf("expected a single attempt, got %d", client.linkCalls)
	}
	if repo.created != nil {
		t.Fatalf("no row should persist when the processor call fails")
	}
}

func TestIssueRejectsNonPositiveAmount(t *testing.T) {
	svc := newIssuerForTests(nil, nil, time.Now())
	if _, err := svc.Issue(context.Background(), uuid.New(), decimal.Zero); err == nil {
		t.Fatalf("expected validation error for zero amount")
	}
}

func TestIssueRoundsFractionalCents(t *testing.T) {
	client := &stubStripeClient{}
	svc := newIssuerForTests(client, nil, time.Now())

	// 107.6923 * 100 = 10769.23; the charge must round, not truncate
	if _, err := svc.Issue(context.Background(), uuid.New(), decimal.RequireFromString("107.6923")); err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if client.priceParams == nil || client.priceParams.UnitAmount == nil || *client.priceParams.UnitAmount != 10769 {
		t.Fatalf("expected 10769 cents, got %+v", client.priceParams.UnitAmount)
	}

	client = &stubStripeClient{}
	svc = newIssuerForTests(client, nil, time.Now())
	if _, err := svc.Issue(context.Background(), uuid.New(), decimal.RequireFromString("107.695")); err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if *client.priceParams.UnitAmount != 10770 {
		t.Fatalf("expected half cents to round up to 10770, got %d", *client.priceParams.UnitAmount)
	}
}

func TestIssuePersistsInsideOneTransaction(t *testing.T) {
	client := &stubStripeClient{}
	repo := &stubLinksRepo{}
	tx := &stubTxRunner{}
	svc, err := NewService(client, repo, tx, 0, "", nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.Issue(context.Background(), uuid.New(), decimal.RequireFromString("150.00")); err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("expected one transaction, got %d", tx.calls)
	}
	if repo.superseded != 1 || repo.created == nil {
		t.Fatalf("expected supersede and insert in the transaction, got superseded=%d created=%v", repo.superseded, repo.created)
	}
}

func TestIssueCreateFailureSurfacesDependencyError(t *testing.T) {
	repo := &stubLinksRepo{createErr: errors.New("insert failed")}
	svc := newIssuerForTests(nil, repo, time.Now())

	_, err := svc.Issue(context.Background(), uuid.New(), decimal.RequireFromString("150.00"))
	if err == nil {
		t.Fatalf("expected error when the insert fails")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
