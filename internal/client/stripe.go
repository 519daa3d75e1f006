package client

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/config"
)

type StripeClient interface {
	// CreatePaymentIntent opens a one-off payment and returns the intent id
	// and the client secret the Elements widget needs.
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency, donationID string) (*StripeIntent, error)

	// CreateSubscriptionCheckout opens a recurring checkout session with an
	// inline price, avoiding pre-registered plans for arbitrary amounts.
	CreateSubscriptionCheckout(ctx context.Context, amount decimal.Decimal, currency, interval, donationID, successURL, cancelURL string) (*StripeCheckout, error)

	// VerifyWebhook checks the Stripe-Signature header and returns the event.
	VerifyWebhook(payload []byte, sigHeader string) (*stripe.Event, error)
}

type StripeIntent struct {
	IntentID     string
	ClientSecret string
}

type StripeCheckout struct {
	SessionID string
	URL       string
}

type stripeClientImpl struct {
	api           *stripeclient.API
	webhookSecret string
}

func NewStripeClient(cfg *config.Stripe) StripeClient {
	api := &stripeclient.API{}
	api.Init(cfg.SecretKey, nil)

	return &stripeClientImpl{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
	}
}

func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func (c *stripeClientImpl) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency, donationID string) (*StripeIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(minorUnits(amount)),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"donation_id": donationID,
		},
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, apperr.ProviderUnavailable("stripe", err)
	}

	return &StripeIntent{
		IntentID:     pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (c *stripeClientImpl) CreateSubscriptionCheckout(ctx context.Context, amount decimal.Decimal, currency, interval, donationID, successURL, cancelURL string) (*StripeCheckout, error) {
	params := &stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Recurring donation"),
					},
					UnitAmount: stripe.Int64(minorUnits(amount)),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(interval),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"donation_id": donationID,
		},
	}

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, apperr.ProviderUnavailable("stripe", err)
	}

	return &StripeCheckout{
		SessionID: s.ID,
		URL:       s.URL,
	}, nil
}

func (c *stripeClientImpl) VerifyWebhook(payload []byte, sigHeader string) (*stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, err
	}
	return &event, nil
}
