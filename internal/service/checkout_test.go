package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/config"
	"charity-donation-backend/internal/dto"
	"charity-donation-backend/internal/fees"
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/provider"
	"charity-donation-backend/internal/repository"
	"charity-donation-backend/internal/service"
)

// fakeProvider records the checkout input it was handed and returns a canned
// session.
type fakeProvider struct {
	method  model.PaymentMethod
	session *provider.Session
	gotIn   *provider.CheckoutInput
}

func (f *fakeProvider) Name() model.PaymentMethod { return f.method }

func (f *fakeProvider) CreateSession(_ context.Context, in *provider.CheckoutInput) (*provider.Session, error) {
	f.gotIn = in
	return f.session, nil
}

func (f *fakeProvider) ParseWebhook(context.Context, http.Header, []byte) (*provider.Event, error) {
	return nil, nil
}

// fakeCaptureProvider additionally needs a server-side capture after
// client approval, the way PayPal orders do.
type fakeCaptureProvider struct {
	fakeProvider
	captured   []string
	captureErr error
}

func (f *fakeCaptureProvider) Capture(_ context.Context, providerPaymentID string) error {
	f.captured = append(f.captured, providerPaymentID)
	return f.captureErr
}

// fakeReconciler records every event routed through it.
type fakeReconciler struct {
	events []*provider.Event
}

func (f *fakeReconciler) Process(_ context.Context, event *provider.Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeReconciler) PurgeDedupWindow(context.Context) error { return nil }

func newEstimator(t *testing.T) *fees.Estimator {
	est, err := fees.NewEstimator(&config.Fees{
		HomeCurrency:               "AUD",
		StripeDomesticPercent:      "1.75",
		StripeDomesticFixed:        "0.30",
		StripeInternationalPercent: "2.90",
		StripeInternationalFixed:   "0.30",
		PaypalDomesticPercent:      "2.60",
		PaypalDomesticFixed:        "0.30",
		PaypalInternationalPercent: "3.60",
		PaypalInternationalFixed:   "0.30",
		WalletDomesticPercent:      "1.75",
		WalletDomesticFixed:        "0.30",
		WalletInternationalPercent: "2.90",
		WalletInternationalFixed:   "0.30",
		PakGatewayPercent:          "2.90",
		PakGatewayFixed:            "0.00",
	})
	require.NoError(t, err)
	return est
}

func pendingDonation() *model.DonationRecord {
	return &model.DonationRecord{
		ID:            "don-1",
		Type:          model.TypeSadqah,
		Amount:        decimal.NewFromInt(100),
		Currency:      "AUD",
		Frequency:     model.FrequencyOneOff,
		PaymentMethod: model.MethodStripe,
		Status:        model.StatusPending,
	}
}

func TestCheckout_OpensSessionAndBindsIt(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockDonationRepository(ctrl)
	ledger := service.NewLedgerService(repo)
	stripe := &fakeProvider{
		method:  model.MethodStripe,
		session: &provider.Session{ProviderPaymentID: "pi_new", ClientSecret: "pi_new_secret"},
	}
	rec := &fakeReconciler{}
	svc := service.NewCheckoutService(ledger, provider.NewRegistry(stripe), newEstimator(t), rec, "https://donate.example.org")

	donation := pendingDonation()
	gomock.InOrder(
		repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil),
		repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil),
		repo.EXPECT().AttachSession(gomock.Any(), "don-1", "pi_new", "").Return(int64(1), nil),
	)

	resp, err := svc.Checkout(context.Background(), "don-1", &dto.CheckoutRequest{})
	require.NoError(t, err)

	assert.Equal(t, "pi_new_secret", resp.ClientSecret)
	assert.False(t, resp.Settled)
	assert.Empty(t, rec.events)

	require.NotNil(t, stripe.gotIn)
	assert.True(t, stripe.gotIn.ChargeAmount.Equal(decimal.NewFromInt(100)))
	assert.Contains(t, stripe.gotIn.ReturnURL, "donation_id=don-1")
}

func TestCheckout_CoverFeesChargesQuotedTotal(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockDonationRepository(ctrl)
	ledger := service.NewLedgerService(repo)
	stripe := &fakeProvider{
		method:  model.MethodStripe,
		session: &provider.Session{ProviderPaymentID: "pi_new"},
	}
	svc := service.NewCheckoutService(ledger, provider.NewRegistry(stripe), newEstimator(t), &fakeReconciler{}, "https://donate.example.org")

	donation := pendingDonation()
	donation.CoverFees = true
	repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil).Times(2)
	repo.EXPECT().AttachSession(gomock.Any(), "don-1", "pi_new", "").Return(int64(1), nil)

	_, err := svc.Checkout(context.Background(), "don-1", &dto.CheckoutRequest{})
	require.NoError(t, err)

	// 100 AUD + 1.75% + 0.30, the same figure the fee preview shows
	require.NotNil(t, stripe.gotIn)
	assert.Equal(t, "102.05", stripe.gotIn.ChargeAmount.StringFixed(2))
}

func TestCheckout_RejectsNonPendingDonation(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockDonationRepository(ctrl)
	ledger := service.NewLedgerService(repo)
	svc := service.NewCheckoutService(ledger, provider.NewRegistry(), newEstimator(t), &fakeReconciler{}, "https://donate.example.org")

	donation := pendingDonation()
	donation.Status = model.StatusCompleted
	repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil)

	_, err := svc.Checkout(context.Background(), "don-1", &dto.CheckoutRequest{})
	var conflict *apperr.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

// Wallet nonce charges settle inside session creation; the result must still
// flow through reconciliation so completion is recorded exactly once.
func TestCheckout_SettledChargeRoutesThroughReconciler(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockDonationRepository(ctrl)
	ledger := service.NewLedgerService(repo)
	wallet := &fakeProvider{
		method:  model.MethodApplePay,
		session: &provider.Session{ProviderPaymentID: "txn_7", Settled: true},
	}
	rec := &fakeReconciler{}
	svc := service.NewCheckoutService(ledger, provider.NewRegistry(wallet), newEstimator(t), rec, "https://donate.example.org")

	donation := pendingDonation()
	donation.PaymentMethod = model.MethodApplePay
	repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil).Times(2)
	repo.EXPECT().AttachSession(gomock.Any(), "don-1", "txn_7", "").Return(int64(1), nil)

	resp, err := svc.Checkout(context.Background(), "don-1", &dto.CheckoutRequest{PaymentNonce: "nonce-abc"})
	require.NoError(t, err)
	assert.True(t, resp.Settled)

	require.Len(t, rec.events, 1)
	event := rec.events[0]
	assert.Equal(t, model.MethodApplePay, event.Provider)
	assert.Equal(t, "txn_7", event.ProviderPaymentID)
	assert.Equal(t, provider.OutcomeSucceeded, event.Outcome)
	assert.Equal(t, "nonce-abc", wallet.gotIn.PaymentNonce)
}

func TestConfirmClient(t *testing.T) {
	t.Run("RoutesThroughReconciler", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)
		rec := &fakeReconciler{}
		svc := service.NewCheckoutService(ledger, provider.NewRegistry(), newEstimator(t), rec, "https://donate.example.org")

		donation := pendingDonation()
		donation.Status = model.StatusAwaitingConfirm
		donation.ProviderPaymentID = "pi_123"
		repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil).Times(2)

		_, err := svc.ConfirmClient(context.Background(), "don-1", &dto.ConfirmRequest{
			ProviderPaymentID: "pi_123",
			Outcome:           "succeeded",
		})
		require.NoError(t, err)

		require.Len(t, rec.events, 1)
		assert.Equal(t, provider.OutcomeSucceeded, rec.events[0].Outcome)
		assert.Empty(t, rec.events[0].EventID)
	})

	t.Run("RejectsForeignPaymentID", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)
		rec := &fakeReconciler{}
		svc := service.NewCheckoutService(ledger, provider.NewRegistry(), newEstimator(t), rec, "https://donate.example.org")

		donation := pendingDonation()
		donation.ProviderPaymentID = "pi_123"
		repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil)

		_, err := svc.ConfirmClient(context.Background(), "don-1", &dto.ConfirmRequest{
			ProviderPaymentID: "pi_stolen",
			Outcome:           "succeeded",
		})
		var conflict *apperr.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Empty(t, rec.events)
	})

	t.Run("CapturesApprovedOrderBeforeRecording", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)
		rec := &fakeReconciler{}
		paypal := &fakeCaptureProvider{fakeProvider: fakeProvider{method: model.MethodPaypal}}
		svc := service.NewCheckoutService(ledger, provider.NewRegistry(paypal), newEstimator(t), rec, "https://donate.example.org")

		donation := pendingDonation()
		donation.Status = model.StatusAwaitingConfirm
		donation.PaymentMethod = model.MethodPaypal
		donation.ProviderPaymentID = "ord-1"
		repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil).Times(2)

		_, err := svc.ConfirmClient(context.Background(), "don-1", &dto.ConfirmRequest{
			ProviderPaymentID: "ord-1",
			Outcome:           "succeeded",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"ord-1"}, paypal.captured)
		require.Len(t, rec.events, 1)
	})

	t.Run("CaptureFailureStopsRecording", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)
		rec := &fakeReconciler{}
		paypal := &fakeCaptureProvider{
			fakeProvider: fakeProvider{method: model.MethodPaypal},
			captureErr:   errors.New("INSTRUMENT_DECLINED"),
		}
		svc := service.NewCheckoutService(ledger, provider.NewRegistry(paypal), newEstimator(t), rec, "https://donate.example.org")

		donation := pendingDonation()
		donation.Status = model.StatusAwaitingConfirm
		donation.PaymentMethod = model.MethodPaypal
		donation.ProviderPaymentID = "ord-1"
		repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil)

		_, err := svc.ConfirmClient(context.Background(), "don-1", &dto.ConfirmRequest{
			ProviderPaymentID: "ord-1",
			Outcome:           "succeeded",
		})
		assert.Error(t, err)
		assert.Empty(t, rec.events)
	})

	t.Run("TerminalDonationNotRecaptured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)
		rec := &fakeReconciler{}
		paypal := &fakeCaptureProvider{fakeProvider: fakeProvider{method: model.MethodPaypal}}
		svc := service.NewCheckoutService(ledger, provider.NewRegistry(paypal), newEstimator(t), rec, "https://donate.example.org")

		// the webhook channel already completed it; repeating the capture
		// would be rejected provider-side
		donation := pendingDonation()
		donation.Status = model.StatusCompleted
		donation.PaymentMethod = model.MethodPaypal
		donation.ProviderPaymentID = "ord-1"
		repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil).Times(2)

		_, err := svc.ConfirmClient(context.Background(), "don-1", &dto.ConfirmRequest{
			ProviderPaymentID: "ord-1",
			Outcome:           "succeeded",
		})
		require.NoError(t, err)

		assert.Empty(t, paypal.captured)
		require.Len(t, rec.events, 1)
	})

	t.Run("FailureOutcomeNotCaptured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)
		rec := &fakeReconciler{}
		paypal := &fakeCaptureProvider{fakeProvider: fakeProvider{method: model.MethodPaypal}}
		svc := service.NewCheckoutService(ledger, provider.NewRegistry(paypal), newEstimator(t), rec, "https://donate.example.org")

		donation := pendingDonation()
		donation.Status = model.StatusAwaitingConfirm
		donation.PaymentMethod = model.MethodPaypal
		donation.ProviderPaymentID = "ord-1"
		repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil).Times(2)

		_, err := svc.ConfirmClient(context.Background(), "don-1", &dto.ConfirmRequest{
			ProviderPaymentID: "ord-1",
			Outcome:           "failed",
		})
		require.NoError(t, err)
		assert.Empty(t, paypal.captured)
	})

	t.Run("FailureOutcome", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)
		rec := &fakeReconciler{}
		svc := service.NewCheckoutService(ledger, provider.NewRegistry(), newEstimator(t), rec, "https://donate.example.org")

		donation := pendingDonation()
		donation.Status = model.StatusAwaitingConfirm
		donation.ProviderPaymentID = "pi_123"
		repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(donation, nil).Times(2)

		_, err := svc.ConfirmClient(context.Background(), "don-1", &dto.ConfirmRequest{
			ProviderPaymentID: "pi_123",
			Outcome:           "failed",
		})
		require.NoError(t, err)
		require.Len(t, rec.events, 1)
		assert.Equal(t, provider.OutcomeFailed, rec.events[0].Outcome)
	})
}
