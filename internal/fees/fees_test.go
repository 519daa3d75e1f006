package fees_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charity-donation-backend/internal/config"
	"charity-donation-backend/internal/fees"
	"charity-donation-backend/internal/model"
)

func defaultFeeConfig() *config.Fees {
	return &config.Fees{
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
	}
}

func TestEstimator_Estimate(t *testing.T) {
	est, err := fees.NewEstimator(defaultFeeConfig())
	require.NoError(t, err)

	type testCase struct {
		name     string
		amount   string
		currency string
		method   model.PaymentMethod
		wantFee  string
		wantTot  string
	}

	tests := []testCase{
		{
			name:     "StripeDomestic",
			amount:   "100",
			currency: "AUD",
			method:   model.MethodStripe,
			wantFee:  "2.05",
			wantTot:  "102.05",
		},
		{
			name:     "StripeInternational",
			amount:   "100",
			currency: "USD",
			method:   model.MethodStripe,
			wantFee:  "3.20",
			wantTot:  "103.20",
		},
		{
			name:     "PaypalDomestic",
			amount:   "50",
			currency: "aud",
			method:   model.MethodPaypal,
			wantFee:  "1.60",
			wantTot:  "51.60",
		},
		{
			name:     "RoundsHalfUp",
			amount:   "21.43",
			currency: "AUD",
			method:   model.MethodStripe, // 21.43*1.75% = 0.375025 + 0.30 = 0.675025 → 0.68
			wantFee:  "0.68",
			wantTot:  "22.11",
		},
		{
			name:     "PakGatewayNoFixedFee",
			amount:   "1000",
			currency: "PKR",
			method:   model.MethodPakistanGateway,
			wantFee:  "29.00",
			wantTot:  "1029.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)

			quote, err := est.Estimate(amount, tt.currency, tt.method)
			require.NoError(t, err)

			assert.Equal(t, tt.wantFee, quote.ProcessingFee.StringFixed(2))
			assert.Equal(t, tt.wantTot, quote.TotalWithFees.StringFixed(2))
			assert.True(t, quote.TotalWithFees.Equal(amount.Add(quote.ProcessingFee)))
			assert.NotEmpty(t, quote.FeeDescription)
		})
	}
}

func TestEstimator_Deterministic(t *testing.T) {
	est, err := fees.NewEstimator(defaultFeeConfig())
	require.NoError(t, err)

	amount := decimal.NewFromInt(100)
	first, err := est.Estimate(amount, "AUD", model.MethodStripe)
	require.NoError(t, err)
	second, err := est.Estimate(amount, "AUD", model.MethodStripe)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEstimator_RejectsBadInput(t *testing.T) {
	est, err := fees.NewEstimator(defaultFeeConfig())
	require.NoError(t, err)

	_, err = est.Estimate(decimal.Zero, "AUD", model.MethodStripe)
	assert.Error(t, err)

	_, err = est.Estimate(decimal.NewFromInt(-5), "AUD", model.MethodStripe)
	assert.Error(t, err)

	_, err = est.Estimate(decimal.NewFromInt(10), "AUD", model.PaymentMethod("bitcoin"))
	assert.Error(t, err)
}
