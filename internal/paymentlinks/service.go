package paymentlinks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
	"github.com/elevate-hq/elevate-backend/pkg/enums"
	pkgerrors "github.com/elevate-hq/elevate-backend/pkg/errors"
)

const (
	linkTypeWeeklyPayment = "weekly_payment"
	defaultLinkTTL        = 7 * 24 * time.Hour
	lineItemName          = "Weekly Tuition Payment"
)

type linksRepository interface {
	CreateWithTx(tx *gorm.DB, link *models.PaymentLink) (*models.PaymentLink, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentLink, error)
	MarkSupersededWithTx(tx *gorm.DB, studentID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Result is the issued link handed back to callers.
type Result struct {
	URL    string          `json:"url"`
	LinkID uuid.UUID       `json:"link_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Service issues amount-specific, time-boxed payment links. One processor
// object is created per call; callers must not invoke it speculatively.
type Service interface {
	Issue(ctx context.Context, studentID uuid.UUID, amount decimal.Decimal) (*Result, error)
}

type service struct {
	stripe      StripePaymentLinkClient
	repo        linksRepository
	db          txRunner
	ttl         time.Duration
	redirectURL string
	now         func() time.Time
}

// NewService builds the link issuer. Non-positive ttl falls back to the
// 7-day default.
func NewService(stripeClient StripePaymentLinkClient, repo linksRepository, db txRunner, ttl time.Duration, redirectURL string, now func() time.Time) (Service, error) {
	if stripeClient == nil {
		return nil, errors.New("stripe client required")
	}
	if repo == nil {
		return nil, errors.New("payment link repository required")
	}
	if db == nil {
		return nil, errors.New("transaction runner required")
	}
	if ttl <= 0 {
		ttl = defaultLinkTTL
	}
	if now == nil {
		now = time.Now
	}
	return &service{stripe: stripeClient, repo: repo, db: db, ttl: ttl, redirectURL: redirectURL, now: now}, nil
}

func (s *service) Issue(ctx context.Context, studentID uuid.UUID, amount decimal.Decimal) (*Result, error) {
	if studentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "student identity missing")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	now := s.now()
	week := weekOf(now)
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	// Payment Links require a concrete Price object; one is minted per link
	// so the charged amount can differ week to week.
	priceParams := &stripe.PriceParams{
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		UnitAmount: stripe.Int64(cents),
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(lineItemName),
		},
	}
	priceObj, err := s.stripe.CreatePrice(ctx, priceParams)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stripe price")
	}

	linkParams := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{
				Price:    stripe.String(priceObj.ID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	if s.redirectURL != "" {
		linkParams.AfterCompletion = &stripe.PaymentLinkAfterCompletionParams{
			Type: stripe.String("redirect"),
			Redirect: &stripe.PaymentLinkAfterCompletionRedirectParams{
				URL: stripe.String(s.redirectURL),
			},
		}
	}
	linkParams.AddMetadata("student_id", studentID.String())
	linkParams.AddMetadata("type", linkTypeWeeklyPayment)
	linkParams.AddMetadata("week", week)

	stripeLink, err := s.stripe.CreatePaymentLink(ctx, linkParams)
	if err != nil {
		// single attempt, no retry; the caller records the failure
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stripe payment link")
	}

	record := &models.PaymentLink{
		ID:                  uuid.New(),
		StudentID:           studentID,
		StripePaymentLinkID: stripeLink.ID,
		URL:                 stripeLink.URL,
		Amount:              amount,
		Type:                linkTypeWeeklyPayment,
		Status:              enums.PaymentLinkStatusActive,
		ExpiresAt:           now.Add(s.ttl),
		CreatedAt:           now,
	}
	// supersede and insert commit together so a student never ends up with
	// two active links
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.MarkSupersededWithTx(tx, studentID); err != nil {
			return fmt.Errorf("supersede previous links: %w", err)
		}
		_, err := s.repo.CreateWithTx(tx, record)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payment link")
	}

	return &Result{URL: stripeLink.URL, LinkID: record.ID, Amount: amount}, nil
}

// weekOf labels the billing week by its Monday.
func weekOf(now time.Time) string {
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -offset)
	return fmt.Sprintf("week of %s", monday.Format("Jan 2, 2006"))
}
