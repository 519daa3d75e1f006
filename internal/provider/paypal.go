package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"charity-donation-backend/internal/client"
	"charity-donation-backend/internal/model"
)

type paypalProvider struct {
	client client.PaypalClient
}

func NewPaypal(c client.PaypalClient) Provider {
	return &paypalProvider{client: c}
}

func (p *paypalProvider) Name() model.PaymentMethod { return model.MethodPaypal }

var paypalInterval = map[model.Frequency]string{
	model.FrequencyWeekly:  "WEEK",
	model.FrequencyMonthly: "MONTH",
}

func (p *paypalProvider) CreateSession(ctx context.Context, in *CheckoutInput) (*Session, error) {
	if in.Donation.Frequency == model.FrequencyOneOff {
		order, err := p.client.CreateOrder(ctx, in.ChargeAmount, in.Donation.Currency, in.ReturnURL, in.CancelURL)
		if err != nil {
			return nil, err
		}
		return &Session{
			ProviderPaymentID: order.OrderID,
			ApprovalURL:       order.ApproveURL,
		}, nil
	}

	interval, ok := paypalInterval[in.Donation.Frequency]
	if !ok {
		return nil, fmt.Errorf("unsupported frequency %q", in.Donation.Frequency)
	}

	sub, err := p.client.CreateSubscription(ctx, in.ChargeAmount, in.Donation.Currency, interval, in.ReturnURL)
	if err != nil {
		return nil, err
	}
	return &Session{
		ProviderSubscriptionID: sub.SubscriptionID,
		ApprovalURL:            sub.ApproveURL,
	}, nil
}

// Capture captures an approved one-off order. Approval alone moves no money.
func (p *paypalProvider) Capture(ctx context.Context, orderID string) error {
	_, err := p.client.CaptureOrder(ctx, orderID)
	return err
}

func (p *paypalProvider) ParseWebhook(ctx context.Context, headers http.Header, body []byte) (*Event, error) {
	if err := p.client.VerifyWebhookSignature(ctx, headers, body); err != nil {
		return nil, fmt.Errorf("paypal signature invalid: %w", err)
	}

	var payload model.PaypalWebhookEvent
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	parseAmount := func(a model.PaypalAmount) decimal.Decimal {
		v, err := decimal.NewFromString(a.Value)
		if err != nil {
			return decimal.Zero
		}
		return v
	}

	switch payload.EventType {
	case "CHECKOUT.ORDER.APPROVED":
		return &Event{
			Provider:          model.MethodPaypal,
			EventID:           payload.ID,
			EventType:         payload.EventType,
			ProviderPaymentID: payload.Resource.ID,
			Outcome:           OutcomeSucceeded,
			Amount:            parseAmount(payload.Resource.Amount),
			Currency:          strings.ToUpper(payload.Resource.Amount.Currency),
		}, nil

	case "PAYMENT.CAPTURE.COMPLETED", "PAYMENT.CAPTURE.DENIED":
		// the capture references our order id through supplementary data
		orderID := payload.Resource.SupplementaryData.RelatedIDs.OrderID
		if orderID == "" {
			return nil, fmt.Errorf("could not find order_id in webhook payload")
		}

		out := &Event{
			Provider:          model.MethodPaypal,
			EventID:           payload.ID,
			EventType:         payload.EventType,
			ProviderPaymentID: orderID,
			Outcome:           OutcomeSucceeded,
			Amount:            parseAmount(payload.Resource.Amount),
			Currency:          strings.ToUpper(payload.Resource.Amount.Currency),
		}
		if payload.EventType == "PAYMENT.CAPTURE.DENIED" {
			out.Outcome = OutcomeFailed
			out.Reason = "capture denied"
		}
		return out, nil

	case "BILLING.SUBSCRIPTION.ACTIVATED":
		amount := payload.Resource.BillingInfo.LastPayment.Amount
		return &Event{
			Provider:               model.MethodPaypal,
			EventID:                payload.ID,
			EventType:              payload.EventType,
			ProviderSubscriptionID: payload.Resource.ID,
			Outcome:                OutcomeSucceeded,
			Recurring:              true,
			Amount:                 parseAmount(amount),
			Currency:               strings.ToUpper(amount.Currency),
		}, nil
	}

	return nil, nil
}
