package service

import (
	"context"
	"fmt"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/dto"
	"charity-donation-backend/internal/fees"
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/provider"
)

// CheckoutService opens a provider-side payment object for a pending
// donation and binds it to the record. The charge amount is computed
// server-side with the same fee table the preview uses, so what the donor
// saw is what gets charged.
type CheckoutService interface {
	Checkout(ctx context.Context, donationID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)

	// ConfirmClient is the synchronous confirmation channel: the front-end
	// reports the provider outcome after confirmPayment / order capture. It
	// funnels into the same reconciliation path as webhooks.
	ConfirmClient(ctx context.Context, donationID string, req *dto.ConfirmRequest) (*model.DonationRecord, error)
}

type checkoutServiceImpl struct {
	ledger     LedgerService
	registry   *provider.Registry
	estimator  *fees.Estimator
	reconciler Reconciler
	baseURL    string
}

func NewCheckoutService(
	ledger LedgerService,
	registry *provider.Registry,
	estimator *fees.Estimator,
	reconciler Reconciler,
	baseURL string,
) CheckoutService {
	return &checkoutServiceImpl{
		ledger:     ledger,
		registry:   registry,
		estimator:  estimator,
		reconciler: reconciler,
		baseURL:    baseURL,
	}
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, donationID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	donation, err := s.ledger.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation.Status != model.StatusPending {
		return nil, apperr.Conflict("donation %s is %s, expected pending", donationID, donation.Status)
	}

	p, err := s.registry.Get(donation.PaymentMethod)
	if err != nil {
		return nil, apperr.Validation("payment_method", err.Error())
	}

	chargeAmount := donation.Amount
	if donation.CoverFees {
		quote, err := s.estimator.Estimate(donation.Amount, donation.Currency, donation.PaymentMethod)
		if err != nil {
			return nil, err
		}
		chargeAmount = quote.TotalWithFees
	}

	session, err := p.CreateSession(ctx, &provider.CheckoutInput{
		Donation:     donation,
		ChargeAmount: chargeAmount,
		PaymentNonce: req.PaymentNonce,
		ReturnURL:    fmt.Sprintf("%s/donate/thanks?donation_id=%s", s.baseURL, donation.ID),
		CancelURL:    fmt.Sprintf("%s/donate", s.baseURL),
	})
	if err != nil {
		return nil, err
	}

	if err := s.ledger.AttachProviderSession(ctx, donation.ID,
		session.ProviderPaymentID, session.ProviderSubscriptionID); err != nil {
		return nil, err
	}

	resp := &dto.CheckoutResponse{
		DonationID:   donation.ID,
		ClientSecret: session.ClientSecret,
		ApprovalURL:  session.ApprovalURL,
		RedirectURL:  session.RedirectURL,
		Settled:      session.Settled,
	}

	// wallet nonce charges settle during session creation; route the result
	// through reconciliation so completion is recorded exactly once
	if session.Settled {
		ref := session.ProviderPaymentID
		if ref == "" {
			ref = session.ProviderSubscriptionID
		}
		err = s.reconciler.Process(ctx, &provider.Event{
			Provider:               donation.PaymentMethod,
			ProviderPaymentID:      session.ProviderPaymentID,
			ProviderSubscriptionID: session.ProviderSubscriptionID,
			Outcome:                provider.OutcomeSucceeded,
			Recurring:              donation.Frequency != model.FrequencyOneOff,
			Amount:                 chargeAmount,
			Currency:               donation.Currency,
		})
		if err != nil {
			return nil, fmt.Errorf("record settled charge %s: %w", ref, err)
		}
	}

	return resp, nil
}

func (s *checkoutServiceImpl) ConfirmClient(ctx context.Context, donationID string, req *dto.ConfirmRequest) (*model.DonationRecord, error) {
	donation, err := s.ledger.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}

	if donation.ProviderPaymentID != req.ProviderPaymentID &&
		donation.ProviderSubscriptionID != req.ProviderPaymentID {
		return nil, apperr.Conflict("payment id does not belong to donation %s", donationID)
	}

	outcome := provider.OutcomeSucceeded
	if req.Outcome == "failed" {
		outcome = provider.OutcomeFailed
	}

	// an approved PayPal order moves no money until we capture it; do that
	// before recording the success
	if outcome == provider.OutcomeSucceeded && !donation.Status.Terminal() &&
		donation.Frequency == model.FrequencyOneOff &&
		donation.ProviderPaymentID == req.ProviderPaymentID {
		if p, err := s.registry.Get(donation.PaymentMethod); err == nil {
			if capturer, ok := p.(provider.Capturer); ok {
				if err := capturer.Capture(ctx, req.ProviderPaymentID); err != nil {
					return nil, err
				}
			}
		}
	}

	err = s.reconciler.Process(ctx, &provider.Event{
		Provider:          donation.PaymentMethod,
		ProviderPaymentID: req.ProviderPaymentID,
		Outcome:           outcome,
		Recurring:         donation.Frequency != model.FrequencyOneOff,
		Amount:            donation.Amount,
		Currency:          donation.Currency,
	})
	if err != nil {
		return nil, err
	}

	return s.ledger.Get(ctx, donationID)
}
