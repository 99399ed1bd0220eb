package paymentlinks

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentlink"
	"github.com/stripe/stripe-go/v84/price"

	pkgstripe "github.com/elevate-hq/elevate-backend/pkg/stripe"
)

// StripePaymentLinkClient exposes the subset of Stripe operations required by the link issuer.
type StripePaymentLinkClient interface {
	CreatePrice(ctx context.Context, params *stripe.PriceParams) (*stripe.Price, error)
	CreatePaymentLink(ctx context.Context, params *stripe.PaymentLinkParams) (*stripe.PaymentLink, error)
}

type stripeClientWrapper struct{}

// NewStripeClient wraps the provided Stripe client so the issuer can be tested.
func NewStripeClient(api *pkgstripe.Client) StripePaymentLinkClient {
	if api == nil {
		return nil
	}
	return &stripeClientWrapper{}
}

func (w *stripeClientWrapper) CreatePrice(ctx context.Context, params *stripe.PriceParams) (*stripe.Price, error) {
	if params != nil {
		params.Context = ctx
	}
	return price.New(params)
}

func (w *stripeClientWrapper) CreatePaymentLink(ctx context.Context, params *stripe.PaymentLinkParams) (*stripe.PaymentLink, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentlink.New(params)
}
