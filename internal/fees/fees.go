package fees

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/config"
	"charity-donation-backend/internal/model"
)

// Rate is one row of the fee table: fee = amount*Percent/100 + Fixed.
type Rate struct {
	Percent decimal.Decimal
	Fixed   decimal.Decimal
	Label   string
}

type rateKey struct {
	method   model.PaymentMethod
	domestic bool
}

// Estimator computes display-only fee previews. It is pure: same inputs,
// same outputs, no I/O. The checkout service reuses the same table when the
// donor opts to cover fees, so the preview and the charged amount agree.
type Estimator struct {
	homeCurrency string
	table        map[rateKey]Rate
}

type Quote struct {
	ProcessingFee  decimal.Decimal
	TotalWithFees  decimal.Decimal
	FeeDescription string
}

func NewEstimator(cfg *config.Fees) (*Estimator, error) {
	table := map[rateKey]Rate{}

	add := func(method model.PaymentMethod, domestic bool, percent, fixed, label string) error {
		p, err := decimal.NewFromString(percent)
		if err != nil {
			return fmt.Errorf("fee percent for %s: %w", method, err)
		}
		f, err := decimal.NewFromString(fixed)
		if err != nil {
			return fmt.Errorf("fee fixed for %s: %w", method, err)
		}
		table[rateKey{method, domestic}] = Rate{Percent: p, Fixed: f, Label: label}
		return nil
	}

	rows := []struct {
		method   model.PaymentMethod
		domestic bool
		percent  string
		fixed    string
		label    string
	}{
		{model.MethodStripe, true, cfg.StripeDomesticPercent, cfg.StripeDomesticFixed, "domestic card"},
		{model.MethodStripe, false, cfg.StripeInternationalPercent, cfg.StripeInternationalFixed, "international card"},
		{model.MethodPaypal, true, cfg.PaypalDomesticPercent, cfg.PaypalDomesticFixed, "PayPal domestic"},
		{model.MethodPaypal, false, cfg.PaypalInternationalPercent, cfg.PaypalInternationalFixed, "PayPal international"},
		{model.MethodApplePay, true, cfg.WalletDomesticPercent, cfg.WalletDomesticFixed, "Apple Pay domestic"},
		{model.MethodApplePay, false, cfg.WalletInternationalPercent, cfg.WalletInternationalFixed, "Apple Pay international"},
		{model.MethodGooglePay, true, cfg.WalletDomesticPercent, cfg.WalletDomesticFixed, "Google Pay domestic"},
		{model.MethodGooglePay, false, cfg.WalletInternationalPercent, cfg.WalletInternationalFixed, "Google Pay international"},
		{model.MethodPakistanGateway, true, cfg.PakGatewayPercent, cfg.PakGatewayFixed, "local gateway"},
		{model.MethodPakistanGateway, false, cfg.PakGatewayPercent, cfg.PakGatewayFixed, "local gateway"},
	}
	for _, r := range rows {
		if err := add(r.method, r.domestic, r.percent, r.fixed, r.label); err != nil {
			return nil, err
		}
	}

	return &Estimator{
		homeCurrency: strings.ToUpper(cfg.HomeCurrency),
		table:        table,
	}, nil
}

// Estimate returns the fee preview for a donation. Money values are rounded
// to 2 decimal places, half away from zero.
func (e *Estimator) Estimate(amount decimal.Decimal, currency string, method model.PaymentMethod) (*Quote, error) {
	if !amount.IsPositive() {
		return nil, apperr.Validation("amount", "must be positive")
	}

	domestic := strings.EqualFold(currency, e.homeCurrency)
	rate, ok := e.table[rateKey{method, domestic}]
	if !ok {
		return nil, apperr.Validation("payment_method", fmt.Sprintf("unknown payment method %q", method))
	}

	hundred := decimal.NewFromInt(100)
	fee := amount.Mul(rate.Percent).Div(hundred).Add(rate.Fixed).Round(2)

	return &Quote{
		ProcessingFee: fee,
		TotalWithFees: amount.Add(fee),
		FeeDescription: fmt.Sprintf("%s%% + %s %s (%s)",
			rate.Percent.String(), rate.Fixed.StringFixed(2), strings.ToUpper(currency), rate.Label),
	}, nil
}
