package dto

import "github.com/shopspring/decimal"

type CreateDonationRequest struct {
	Type          string `json:"type" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
	Currency      string `json:"currency" validate:"required,len=3"`
	Frequency     string `json:"frequency" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
	CaseID        string `json:"case_id"`
	DonorName     string `json:"donor_name"`
	DonorEmail    string `json:"donor_email" validate:"omitempty,email"`
	CoverFees     bool   `json:"cover_fees"`
}

type DonationResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Frequency     string `json:"frequency"`
	PaymentMethod string `json:"payment_method"`
	Status        string `json:"status"`
	CaseID        string `json:"case_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// CheckoutRequest carries the wallet nonce for Braintree-backed methods; the
// other providers need nothing beyond the donation itself.
type CheckoutRequest struct {
	PaymentNonce string `json:"payment_nonce"`
}

type CheckoutResponse struct {
	DonationID string `json:"donation_id"`
	// exactly one of the following is set, depending on provider
	ClientSecret string `json:"client_secret,omitempty"`
	ApprovalURL  string `json:"approval_url,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	// set when the charge settled synchronously (wallet nonce flow)
	Settled bool `json:"settled,omitempty"`
}

type ConfirmRequest struct {
	ProviderPaymentID string `json:"provider_payment_id" validate:"required"`
	Outcome           string `json:"outcome" validate:"required,oneof=succeeded failed"`
}

type FeeQuoteRequest struct {
	Amount        string `json:"amount" validate:"required"`
	Currency      string `json:"currency" validate:"required,len=3"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type FeeQuoteResponse struct {
	ProcessingFee  string `json:"processing_fee"`
	TotalWithFees  string `json:"total_with_fees"`
	FeeDescription string `json:"fee_description"`
}

type CaseRequest struct {
	Title            string `json:"title" validate:"required"`
	Description      string `json:"description"`
	Currency         string `json:"currency" validate:"required,len=3"`
	AmountRequired   string `json:"amount_required" validate:"required"`
	Active           *bool  `json:"active"`
	RecurringAllowed *bool  `json:"recurring_allowed"`
}

type CaseResponse struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Currency         string          `json:"currency"`
	AmountRequired   decimal.Decimal `json:"amount_required"`
	AmountCollected  decimal.Decimal `json:"amount_collected"`
	Active           bool            `json:"active"`
	RecurringAllowed bool            `json:"recurring_allowed"`
	CreatedAt        string          `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type DetectCurrencyResponse struct {
	Currency string `json:"currency"`
	Country  string `json:"country"`
}
