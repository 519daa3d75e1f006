package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/repository"
)

// CreateDonationInput is the explicit request object for a new donation
// intent. Nothing about an in-flight donation lives in ambient state.
type CreateDonationInput struct {
	Type          model.DonationType
	Amount        decimal.Decimal
	Currency      string
	Frequency     model.Frequency
	PaymentMethod model.PaymentMethod
	CaseID        string
	DonorName     string
	DonorEmail    string
	CoverFees     bool
}

type LedgerService interface {
	Create(ctx context.Context, input *CreateDonationInput) (*model.DonationRecord, error)

	// AttachProviderSession binds a provider-side object to the donation and
	// moves it to awaiting_confirmation. Re-attaching the same ids is a
	// no-op; attaching different ids is a conflict.
	AttachProviderSession(ctx context.Context, donationID, providerPaymentID, providerSubscriptionID string) error

	// BindProviderSubscription records a subscription id learned after the
	// session was attached (e.g. from the first webhook).
	BindProviderSubscription(ctx context.Context, donationID, providerSubscriptionID string) error

	// MarkCompleted transitions to the success terminal state. It is
	// idempotent: a repeat call with the same provider payment id reports
	// applied=false with no error and must trigger no side effects.
	MarkCompleted(ctx context.Context, donationID, providerRef string, exchangeRate decimal.Decimal) (applied bool, err error)

	// MarkFailed transitions to failed from pending or awaiting_confirmation
	// only. Failing an already-succeeded donation is a conflict.
	MarkFailed(ctx context.Context, donationID, reason string) error

	Get(ctx context.Context, donationID string) (*model.DonationRecord, error)
	GetByProviderRef(ctx context.Context, ref string) (*model.DonationRecord, error)
	ListByCase(ctx context.Context, caseID string) ([]*model.DonationRecord, error)
	List(ctx context.Context, status model.DonationStatus, limit, offset int) ([]*model.DonationRecord, error)
}

type ledgerServiceImpl struct {
	donationRepo repository.DonationRepository
}

func NewLedgerService(donationRepo repository.DonationRepository) LedgerService {
	return &ledgerServiceImpl{
		donationRepo: donationRepo,
	}
}

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

var validTypes = map[model.DonationType]bool{
	model.TypeZakaat:   true,
	model.TypeSadqah:   true,
	model.TypeInterest: true,
}

var validFrequencies = map[model.Frequency]bool{
	model.FrequencyOneOff:  true,
	model.FrequencyWeekly:  true,
	model.FrequencyMonthly: true,
}

var validMethods = map[model.PaymentMethod]bool{
	model.MethodStripe:          true,
	model.MethodPaypal:          true,
	model.MethodApplePay:        true,
	model.MethodGooglePay:       true,
	model.MethodPakistanGateway: true,
}

func (s *ledgerServiceImpl) Create(ctx context.Context, input *CreateDonationInput) (*model.DonationRecord, error) {
	if !input.Amount.IsPositive() {
		return nil, apperr.Validation("amount", "must be positive")
	}
	if !validTypes[input.Type] {
		return nil, apperr.Validation("type", "must be one of zakaat, sadqah, interest")
	}
	if !validFrequencies[input.Frequency] {
		return nil, apperr.Validation("frequency", "must be one of one-off, weekly, monthly")
	}
	if !validMethods[input.PaymentMethod] {
		return nil, apperr.Validation("payment_method", "unknown payment method")
	}
	currency := strings.ToUpper(input.Currency)
	if !currencyCodeRe.MatchString(currency) {
		return nil, apperr.Validation("currency", "must be a 3-letter ISO code")
	}

	donation := &model.DonationRecord{
		ID:            uuid.NewString(),
		Type:          input.Type,
		Amount:        input.Amount.Round(2),
		Currency:      currency,
		Frequency:     input.Frequency,
		PaymentMethod: input.PaymentMethod,
		Status:        model.StatusPending,
		DonorName:     input.DonorName,
		DonorEmail:    input.DonorEmail,
		CoverFees:     input.CoverFees,
	}
	if input.CaseID != "" {
		caseID := input.CaseID
		donation.CaseID = &caseID
	}

	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	return donation, nil
}

func (s *ledgerServiceImpl) AttachProviderSession(ctx context.Context, donationID, providerPaymentID, providerSubscriptionID string) error {
	donation, err := s.get(ctx, donationID)
	if err != nil {
		return err
	}

	if donation.ProviderPaymentID != "" || donation.ProviderSubscriptionID != "" {
		if donation.ProviderPaymentID == providerPaymentID &&
			donation.ProviderSubscriptionID == providerSubscriptionID {
			return nil
		}
		// a different session is already bound: refuse rather than let one
		// donation be claimed by two provider objects
		return apperr.Conflict("donation %s already bound to another provider session", donationID)
	}

	rows, err := s.donationRepo.AttachSession(ctx, donationID, providerPaymentID, providerSubscriptionID)
	if err != nil {
		return err
	}
	if rows == 0 {
		// lost a race since the read above; re-read to tell no-op from conflict
		donation, err = s.get(ctx, donationID)
		if err != nil {
			return err
		}
		if donation.ProviderPaymentID == providerPaymentID &&
			donation.ProviderSubscriptionID == providerSubscriptionID {
			return nil
		}
		return apperr.Conflict("donation %s is not pending", donationID)
	}

	return nil
}

func (s *ledgerServiceImpl) BindProviderSubscription(ctx context.Context, donationID, providerSubscriptionID string) error {
	return s.donationRepo.BindSubscription(ctx, donationID, providerSubscriptionID)
}

func (s *ledgerServiceImpl) MarkCompleted(ctx context.Context, donationID, providerRef string, exchangeRate decimal.Decimal) (bool, error) {
	donation, err := s.get(ctx, donationID)
	if err != nil {
		return false, err
	}

	if providerRef != "" &&
		donation.ProviderPaymentID != providerRef &&
		donation.ProviderSubscriptionID != providerRef {
		return false, apperr.Conflict("payment id %s does not match donation %s", providerRef, donationID)
	}

	target := model.StatusCompleted
	if donation.Frequency != model.FrequencyOneOff {
		target = model.StatusActiveSubscription
	}

	if exchangeRate.IsZero() {
		exchangeRate = decimal.NewFromInt(1)
	}

	rows, err := s.donationRepo.MarkTerminal(ctx, donationID, target, exchangeRate, "")
	if err != nil {
		return false, err
	}
	if rows > 0 {
		return true, nil
	}

	// the conditional update did not apply: the record is already terminal
	donation, err = s.get(ctx, donationID)
	if err != nil {
		return false, err
	}
	if donation.Status.Succeeded() {
		// duplicate confirmation, same real-world payment
		return false, nil
	}
	// a success event after a recorded failure is suspicious; surface it
	return false, apperr.Conflict("donation %s is %s, cannot complete", donationID, donation.Status)
}

func (s *ledgerServiceImpl) MarkFailed(ctx context.Context, donationID, reason string) error {
	rows, err := s.donationRepo.MarkTerminal(ctx, donationID, model.StatusFailed, decimal.Zero, reason)
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	donation, err := s.get(ctx, donationID)
	if err != nil {
		return err
	}
	if donation.Status == model.StatusFailed {
		return nil
	}
	// failed arriving after success: never regress a terminal success
	return apperr.Conflict("donation %s is %s, cannot fail", donationID, donation.Status)
}

func (s *ledgerServiceImpl) Get(ctx context.Context, donationID string) (*model.DonationRecord, error) {
	return s.get(ctx, donationID)
}

func (s *ledgerServiceImpl) GetByProviderRef(ctx context.Context, ref string) (*model.DonationRecord, error) {
	donation, err := s.donationRepo.FindByProviderRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.UnknownPayment("", ref)
		}
		return nil, err
	}
	return donation, nil
}

func (s *ledgerServiceImpl) ListByCase(ctx context.Context, caseID string) ([]*model.DonationRecord, error) {
	return s.donationRepo.ListByCase(ctx, caseID)
}

func (s *ledgerServiceImpl) List(ctx context.Context, status model.DonationStatus, limit, offset int) ([]*model.DonationRecord, error) {
	return s.donationRepo.List(ctx, status, limit, offset)
}

func (s *ledgerServiceImpl) get(ctx context.Context, donationID string) (*model.DonationRecord, error) {
	donation, err := s.donationRepo.FindByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("donation", donationID)
		}
		return nil, err
	}
	return donation, nil
}
