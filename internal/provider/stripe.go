package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"

	"charity-donation-backend/internal/client"
	"charity-donation-backend/internal/model"
)

type stripeProvider struct {
	client client.StripeClient
}

func NewStripe(c client.StripeClient) Provider {
	return &stripeProvider{client: c}
}

func (p *stripeProvider) Name() model.PaymentMethod { return model.MethodStripe }

// stripeInterval maps donation frequency to Stripe's recurring interval.
var stripeInterval = map[model.Frequency]string{
	model.FrequencyWeekly:  "week",
	model.FrequencyMonthly: "month",
}

func (p *stripeProvider) CreateSession(ctx context.Context, in *CheckoutInput) (*Session, error) {
	if in.Donation.Frequency == model.FrequencyOneOff {
		intent, err := p.client.CreatePaymentIntent(ctx, in.ChargeAmount, in.Donation.Currency, in.Donation.ID)
		if err != nil {
			return nil, err
		}
		return &Session{
			ProviderPaymentID: intent.IntentID,
			ClientSecret:      intent.ClientSecret,
		}, nil
	}

	interval, ok := stripeInterval[in.Donation.Frequency]
	if !ok {
		return nil, fmt.Errorf("unsupported frequency %q", in.Donation.Frequency)
	}

	checkout, err := p.client.CreateSubscriptionCheckout(ctx, in.ChargeAmount, in.Donation.Currency,
		interval, in.Donation.ID, in.ReturnURL, in.CancelURL)
	if err != nil {
		return nil, err
	}
	return &Session{
		ProviderPaymentID: checkout.SessionID,
		RedirectURL:       checkout.URL,
	}, nil
}

func fromMinorUnits(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Div(decimal.NewFromInt(100))
}

func (p *stripeProvider) ParseWebhook(ctx context.Context, headers http.Header, body []byte) (*Event, error) {
	event, err := p.client.VerifyWebhook(body, headers.Get("Stripe-Signature"))
	if err != nil {
		return nil, fmt.Errorf("stripe signature invalid: %w", err)
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}

		out := &Event{
			Provider:          model.MethodStripe,
			EventID:           event.ID,
			EventType:         string(event.Type),
			ProviderPaymentID: pi.ID,
			Outcome:           OutcomeSucceeded,
			Amount:            fromMinorUnits(pi.Amount),
			Currency:          strings.ToUpper(string(pi.Currency)),
		}
		if event.Type == "payment_intent.payment_failed" {
			out.Outcome = OutcomeFailed
			if pi.LastPaymentError != nil {
				out.Reason = pi.LastPaymentError.Msg
			}
		}
		return out, nil

	case "checkout.session.completed":
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}

		out := &Event{
			Provider:          model.MethodStripe,
			EventID:           event.ID,
			EventType:         string(event.Type),
			ProviderPaymentID: s.ID,
			Outcome:           OutcomeSucceeded,
			Recurring:         s.Mode == stripe.CheckoutSessionModeSubscription,
			Amount:            fromMinorUnits(s.AmountTotal),
			Currency:          strings.ToUpper(string(s.Currency)),
		}
		if s.Subscription != nil {
			out.ProviderSubscriptionID = s.Subscription.ID
		}
		return out, nil

	case "invoice.paid":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}

		out := &Event{
			Provider:  model.MethodStripe,
			EventID:   event.ID,
			EventType: string(event.Type),
			Outcome:   OutcomeSucceeded,
			Recurring: true,
			Amount:    fromMinorUnits(inv.AmountPaid),
			Currency:  strings.ToUpper(string(inv.Currency)),
		}
		if inv.Parent != nil && inv.Parent.SubscriptionDetails != nil && inv.Parent.SubscriptionDetails.Subscription != nil {
			out.ProviderSubscriptionID = inv.Parent.SubscriptionDetails.Subscription.ID
		}
		return out, nil
	}

	// recognized signature, irrelevant event type
	return nil, nil
}
