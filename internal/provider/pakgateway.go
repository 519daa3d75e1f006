package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/client"
	"charity-donation-backend/internal/model"
)

type pakGatewayProvider struct {
	client client.PakGatewayClient
}

func NewPakGateway(c client.PakGatewayClient) Provider {
	return &pakGatewayProvider{client: c}
}

func (p *pakGatewayProvider) Name() model.PaymentMethod { return model.MethodPakistanGateway }

func (p *pakGatewayProvider) CreateSession(ctx context.Context, in *CheckoutInput) (*Session, error) {
	if in.Donation.Frequency != model.FrequencyOneOff {
		return nil, apperr.Validation("frequency", "local gateway supports one-off donations only")
	}

	checkout, err := p.client.CreateCheckout(ctx, in.ChargeAmount, in.Donation.Currency, in.ReturnURL)
	if err != nil {
		return nil, err
	}
	return &Session{
		ProviderPaymentID: checkout.TrackerToken,
		RedirectURL:       checkout.CheckoutURL,
	}, nil
}

// pakNotification is the gateway's IPN payload.
type pakNotification struct {
	NotificationID string `json:"notification_id"`
	Token          string `json:"token"`
	State          string `json:"state"` // PAID | FAILED
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	Reason         string `json:"reason"`
}

func (p *pakGatewayProvider) ParseWebhook(ctx context.Context, headers http.Header, body []byte) (*Event, error) {
	if err := p.client.VerifyNotification(body, headers.Get("X-SFPY-Signature")); err != nil {
		return nil, fmt.Errorf("gateway signature invalid: %w", err)
	}

	var n pakNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	if n.Token == "" {
		return nil, fmt.Errorf("notification missing tracker token")
	}

	amount, err := decimal.NewFromString(n.Amount)
	if err != nil {
		amount = decimal.Zero
	}

	out := &Event{
		Provider:          model.MethodPakistanGateway,
		EventID:           n.NotificationID,
		EventType:         n.State,
		ProviderPaymentID: n.Token,
		Amount:            amount,
		Currency:          strings.ToUpper(n.Currency),
	}

	switch n.State {
	case "PAID":
		out.Outcome = OutcomeSucceeded
	case "FAILED":
		out.Outcome = OutcomeFailed
		out.Reason = n.Reason
	default:
		return nil, nil
	}
	return out, nil
}
