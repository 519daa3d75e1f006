package provider

import (
	"context"
	"fmt"
	"net/http"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/client"
	"charity-donation-backend/internal/model"
)

// walletProvider backs Apple Pay and Google Pay through Braintree. The
// wallet widget tokenizes the payment on the client; the backend charges the
// resulting nonce, so the charge settles synchronously and confirmation
// arrives through the client-callback channel rather than a webhook.
type walletProvider struct {
	method model.PaymentMethod
	client client.BraintreeClient
}

func NewApplePay(c client.BraintreeClient) Provider {
	return &walletProvider{method: model.MethodApplePay, client: c}
}

func NewGooglePay(c client.BraintreeClient) Provider {
	return &walletProvider{method: model.MethodGooglePay, client: c}
}

func (p *walletProvider) Name() model.PaymentMethod { return p.method }

// braintreePlan maps donation frequency to the pre-provisioned Braintree
// billing plan for recurring wallet donations.
var braintreePlan = map[model.Frequency]string{
	model.FrequencyWeekly:  "donation-weekly",
	model.FrequencyMonthly: "donation-monthly",
}

func (p *walletProvider) CreateSession(ctx context.Context, in *CheckoutInput) (*Session, error) {
	if in.PaymentNonce == "" {
		return nil, apperr.Validation("payment_nonce", "required for wallet payments")
	}

	if in.Donation.Frequency == model.FrequencyOneOff {
		txID, err := p.client.ChargeNonce(ctx, in.PaymentNonce, in.ChargeAmount)
		if err != nil {
			return nil, err
		}
		return &Session{
			ProviderPaymentID: txID,
			Settled:           true,
		}, nil
	}

	planID, ok := braintreePlan[in.Donation.Frequency]
	if !ok {
		return nil, fmt.Errorf("unsupported frequency %q", in.Donation.Frequency)
	}

	token, err := p.client.VaultNonce(ctx, in.PaymentNonce, in.Donation.DonorName, in.Donation.DonorEmail)
	if err != nil {
		return nil, err
	}

	subID, err := p.client.CreateSubscription(ctx, token, planID)
	if err != nil {
		return nil, err
	}
	return &Session{
		ProviderPaymentID:      subID,
		ProviderSubscriptionID: subID,
		Settled:                true,
	}, nil
}

func (p *walletProvider) ParseWebhook(ctx context.Context, headers http.Header, body []byte) (*Event, error) {
	return nil, fmt.Errorf("%s does not deliver webhooks", p.method)
}
