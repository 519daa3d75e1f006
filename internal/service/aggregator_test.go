package service_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/currency"
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/repository"
	"charity-donation-backend/internal/service"
)

func TestAggregator_RecomputeCollected(t *testing.T) {
	caseID := "case-1"
	audCase := &model.Case{ID: caseID, Currency: "AUD", Active: true}

	succeeded := func(amount, curr, rate string) *model.DonationRecord {
		return &model.DonationRecord{
			ID:           fmt.Sprintf("don-%s-%s", curr, amount),
			Amount:       decimal.RequireFromString(amount),
			Currency:     curr,
			Status:       model.StatusCompleted,
			ExchangeRate: decimal.RequireFromString(rate),
		}
	}

	type testCase struct {
		name      string
		donations []*model.DonationRecord
		want      string
	}

	tests := []testCase{
		{
			name: "SameCurrencySums",
			donations: []*model.DonationRecord{
				succeeded("50", "AUD", "1"),
				succeeded("25.50", "AUD", "1"),
			},
			want: "75.50",
		},
		{
			name:      "NoSucceededDonations",
			donations: nil,
			want:      "0.00",
		},
		{
			name: "ConvertsBySnapshotRate",
			donations: []*model.DonationRecord{
				succeeded("100", "USD", "1.50"), // snapshot, not the live rate
				succeeded("10", "AUD", "1"),
			},
			want: "160.00",
		},
		{
			name: "ZeroSnapshotFallsBackToLiveRate",
			donations: []*model.DonationRecord{
				succeeded("65", "USD", "0"), // 65 USD -> 100 AUD at the static rate
			},
			want: "100.00",
		},
		{
			name: "SkipsUnconvertibleCurrency",
			donations: []*model.DonationRecord{
				succeeded("40", "AUD", "1"),
				succeeded("99", "XXX", "0"),
			},
			want: "40.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			caseRepo := repository.NewMockCaseRepository(ctrl)
			donationRepo := repository.NewMockDonationRepository(ctrl)
			agg := service.NewAggregator(caseRepo, donationRepo, currency.DefaultStatic())

			caseRepo.EXPECT().FindByID(gomock.Any(), caseID).Return(audCase, nil)
			donationRepo.EXPECT().ListSucceededByCase(gomock.Any(), caseID).
				Return(tt.donations, nil)
			caseRepo.EXPECT().
				SetAmountCollected(gomock.Any(), caseID, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, total decimal.Decimal) (int64, error) {
					assert.Equal(t, tt.want, total.StringFixed(2))
					return 1, nil
				})

			require.NoError(t, agg.RecomputeCollected(context.Background(), caseID))
		})
	}
}

func TestAggregator_UnknownCase(t *testing.T) {
	ctrl := gomock.NewController(t)
	caseRepo := repository.NewMockCaseRepository(ctrl)
	donationRepo := repository.NewMockDonationRepository(ctrl)
	agg := service.NewAggregator(caseRepo, donationRepo, currency.DefaultStatic())

	caseRepo.EXPECT().FindByID(gomock.Any(), "missing").Return(nil, gorm.ErrRecordNotFound)

	err := agg.RecomputeCollected(context.Background(), "missing")
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// Recomputing after a randomized sequence of completions must land exactly on
// the independently computed sum of the succeeded records, no matter how many
// times the recompute runs in between.
func TestAggregator_TotalMatchesIndependentSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	caseID := "case-rand"
	audCase := &model.Case{ID: caseID, Currency: "AUD", Active: true}

	var records []*model.DonationRecord
	expected := decimal.Zero
	for i := 0; i < 200; i++ {
		cents := rng.Int63n(500_000) + 1
		amount := decimal.New(cents, -2)
		d := &model.DonationRecord{
			ID:           fmt.Sprintf("don-%03d", i),
			Amount:       amount,
			Currency:     "AUD",
			ExchangeRate: decimal.NewFromInt(1),
		}
		// roughly a quarter fail; they must not count
		switch rng.Intn(4) {
		case 0:
			d.Status = model.StatusFailed
		case 1:
			d.Status = model.StatusActiveSubscription
		default:
			d.Status = model.StatusCompleted
		}
		records = append(records, d)
		if d.Status.Succeeded() {
			expected = expected.Add(amount)
		}
	}

	succeeded := make([]*model.DonationRecord, 0, len(records))
	for _, d := range records {
		if d.Status.Succeeded() {
			succeeded = append(succeeded, d)
		}
	}

	ctrl := gomock.NewController(t)
	caseRepo := repository.NewMockCaseRepository(ctrl)
	donationRepo := repository.NewMockDonationRepository(ctrl)
	agg := service.NewAggregator(caseRepo, donationRepo, currency.DefaultStatic())

	const reruns = 3
	caseRepo.EXPECT().FindByID(gomock.Any(), caseID).Return(audCase, nil).Times(reruns)
	donationRepo.EXPECT().ListSucceededByCase(gomock.Any(), caseID).
		Return(succeeded, nil).Times(reruns)
	caseRepo.EXPECT().
		SetAmountCollected(gomock.Any(), caseID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, total decimal.Decimal) (int64, error) {
			assert.True(t, total.Equal(expected.Round(2)), "total %s != %s", total, expected)
			return 1, nil
		}).
		Times(reruns)

	// reruns over the same records must be idempotent, never additive
	for i := 0; i < reruns; i++ {
		require.NoError(t, agg.RecomputeCollected(context.Background(), caseID))
	}
}
