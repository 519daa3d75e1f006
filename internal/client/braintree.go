package client

import (
	"context"
	"fmt"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/config"
)

// BraintreeClient charges Apple Pay / Google Pay payment-method nonces
// produced by the wallet widgets on the front-end.
type BraintreeClient interface {
	// ChargeNonce charges a one-off wallet payment and submits it for
	// settlement immediately.
	ChargeNonce(ctx context.Context, nonce string, amount decimal.Decimal) (string, error)

	// VaultNonce stores the wallet payment method and returns a permanent token.
	VaultNonce(ctx context.Context, nonce, firstName, email string) (string, error)

	// CreateSubscription attaches a vaulted token to a billing plan.
	CreateSubscription(ctx context.Context, paymentToken, planID string) (string, error)
}

type braintreeClientImpl struct {
	gateway *braintree.Braintree
}

func NewBraintreeClient(cfg *config.Braintree) BraintreeClient {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &braintreeClientImpl{
		gateway: gateway,
	}
}

func (c *braintreeClientImpl) ChargeNonce(ctx context.Context, nonce string, amount decimal.Decimal) (string, error) {
	// braintree wants NewDecimal(unscaled, scale): 50.00 → (5000, 2)
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	btAmount := braintree.NewDecimal(cents, 2)

	req := &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             btAmount,
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	}

	tx, err := c.gateway.Transaction().Create(ctx, req)
	if err != nil {
		return "", apperr.ProviderUnavailable("braintree", err)
	}

	if tx.Status == braintree.TransactionStatusProcessorDeclined {
		return "", fmt.Errorf("transaction declined by processor: %s", tx.ProcessorResponseText)
	}

	return tx.Id, nil
}

func (c *braintreeClientImpl) VaultNonce(ctx context.Context, nonce, firstName, email string) (string, error) {
	req := &braintree.CustomerRequest{
		PaymentMethodNonce: nonce,
		FirstName:          firstName,
		Email:              email,
	}

	customer, err := c.gateway.Customer().Create(ctx, req)
	if err != nil {
		return "", apperr.ProviderUnavailable("braintree", err)
	}

	if customer.DefaultPaymentMethod() == nil {
		return "", fmt.Errorf("no default payment method returned from vault")
	}

	return customer.DefaultPaymentMethod().GetToken(), nil
}

func (c *braintreeClientImpl) CreateSubscription(ctx context.Context, paymentToken, planID string) (string, error) {
	req := &braintree.SubscriptionRequest{
		PaymentMethodToken: paymentToken,
		PlanId:             planID,
	}

	sub, err := c.gateway.Subscription().Create(ctx, req)
	if err != nil {
		return "", apperr.ProviderUnavailable("braintree", err)
	}

	return sub.Id, nil
}
