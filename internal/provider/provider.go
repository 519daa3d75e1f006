package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"charity-donation-backend/internal/model"
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Event is the single internal shape every provider notification is
// normalized into before it reaches the reconciler. Nothing downstream ever
// inspects provider-specific fields.
type Event struct {
	Provider  model.PaymentMethod
	EventID   string // provider event id, empty when the provider has none
	EventType string

	ProviderPaymentID      string
	ProviderSubscriptionID string

	Outcome   Outcome
	Recurring bool
	Amount    decimal.Decimal
	Currency  string
	Reason    string // failure detail, when available
}

// DedupKey identifies one real-world payment event across redeliveries.
// Providers that supply an event id use it; otherwise the payment id plus
// outcome stands in.
func (e *Event) DedupKey() string {
	if e.EventID != "" {
		return fmt.Sprintf("%s:%s", e.Provider, e.EventID)
	}
	return fmt.Sprintf("%s:%s:%s", e.Provider, e.ProviderPaymentID, e.Outcome)
}

// Session is the provider-side object bound to a donation at checkout time.
type Session struct {
	ProviderPaymentID      string
	ProviderSubscriptionID string

	ClientSecret string // Stripe Elements
	ApprovalURL  string // PayPal redirect
	RedirectURL  string // hosted checkout (Stripe subscription, local gateway)
	Settled      bool   // wallet nonce charges settle synchronously
}

// CheckoutInput carries everything a provider needs to open a session.
// ChargeAmount already includes processing fees when the donor covers them.
type CheckoutInput struct {
	Donation     *model.DonationRecord
	ChargeAmount decimal.Decimal
	PaymentNonce string
	ReturnURL    string
	CancelURL    string
}

type Provider interface {
	Name() model.PaymentMethod
	CreateSession(ctx context.Context, in *CheckoutInput) (*Session, error)

	// ParseWebhook authenticates and normalizes a raw notification.
	// (nil, nil) means the event type is recognized but irrelevant.
	ParseWebhook(ctx context.Context, headers http.Header, body []byte) (*Event, error)
}

// Capturer is implemented by providers whose payments are approved
// client-side but move money only after a server-side capture.
type Capturer interface {
	Capture(ctx context.Context, providerPaymentID string) error
}

// Registry is the one place provider dispatch happens.
type Registry struct {
	providers map[model.PaymentMethod]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[model.PaymentMethod]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(method model.PaymentMethod) (Provider, error) {
	p, ok := r.providers[method]
	if !ok {
		return nil, fmt.Errorf("no provider registered for %q", method)
	}
	return p, nil
}
