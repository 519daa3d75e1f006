package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/repository"
	"charity-donation-backend/internal/service"
)

func validCreateInput() *service.CreateDonationInput {
	return &service.CreateDonationInput{
		Type:          model.TypeSadqah,
		Amount:        decimal.RequireFromString("25.50"),
		Currency:      "aud",
		Frequency:     model.FrequencyOneOff,
		PaymentMethod: model.MethodStripe,
		DonorName:     "Ayesha",
		DonorEmail:    "ayesha@example.com",
	}
}

func TestLedgerService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockDonationRepository(ctrl)
	ledger := service.NewLedgerService(repo)

	var created *model.DonationRecord
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *model.DonationRecord) error {
			created = d
			return nil
		})

	donation, err := ledger.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.NotEmpty(t, donation.ID)
	assert.Equal(t, model.StatusPending, donation.Status)
	assert.Equal(t, "AUD", donation.Currency)
	assert.True(t, donation.Amount.Equal(decimal.RequireFromString("25.50")))
	assert.Nil(t, donation.CaseID)
	assert.Same(t, created, donation)
}

func TestLedgerService_CreateRejectsBadInput(t *testing.T) {
	type testCase struct {
		name   string
		mutate func(in *service.CreateDonationInput)
		field  string
	}

	tests := []testCase{
		{
			name:   "ZeroAmount",
			mutate: func(in *service.CreateDonationInput) { in.Amount = decimal.Zero },
			field:  "amount",
		},
		{
			name:   "NegativeAmount",
			mutate: func(in *service.CreateDonationInput) { in.Amount = decimal.NewFromInt(-5) },
			field:  "amount",
		},
		{
			name:   "UnknownType",
			mutate: func(in *service.CreateDonationInput) { in.Type = "tithe" },
			field:  "type",
		},
		{
			name:   "UnknownFrequency",
			mutate: func(in *service.CreateDonationInput) { in.Frequency = "yearly" },
			field:  "frequency",
		},
		{
			name:   "UnknownMethod",
			mutate: func(in *service.CreateDonationInput) { in.PaymentMethod = "bitcoin" },
			field:  "payment_method",
		},
		{
			name:   "BadCurrencyCode",
			mutate: func(in *service.CreateDonationInput) { in.Currency = "DOLLARS" },
			field:  "currency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := repository.NewMockDonationRepository(ctrl)
			ledger := service.NewLedgerService(repo)

			in := validCreateInput()
			tt.mutate(in)

			_, err := ledger.Create(context.Background(), in)
			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLedgerService_AttachProviderSession(t *testing.T) {
	awaiting := func() *model.DonationRecord {
		return &model.DonationRecord{
			ID:                "don-1",
			Status:            model.StatusAwaitingConfirm,
			ProviderPaymentID: "pi_123",
		}
	}

	t.Run("FreshAttach", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		repo.EXPECT().FindByID(gomock.Any(), "don-1").
			Return(&model.DonationRecord{ID: "don-1", Status: model.StatusPending}, nil)
		repo.EXPECT().AttachSession(gomock.Any(), "don-1", "pi_123", "").
			Return(int64(1), nil)

		require.NoError(t, ledger.AttachProviderSession(context.Background(), "don-1", "pi_123", ""))
	})

	t.Run("SameSessionIsNoOp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(awaiting(), nil)

		require.NoError(t, ledger.AttachProviderSession(context.Background(), "don-1", "pi_123", ""))
	})

	t.Run("DifferentSessionConflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(awaiting(), nil)

		err := ledger.AttachProviderSession(context.Background(), "don-1", "pi_other", "")
		var conflict *apperr.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("LostRaceSameIdsIsNoOp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		gomock.InOrder(
			repo.EXPECT().FindByID(gomock.Any(), "don-1").
				Return(&model.DonationRecord{ID: "don-1", Status: model.StatusPending}, nil),
			repo.EXPECT().AttachSession(gomock.Any(), "don-1", "pi_123", "").
				Return(int64(0), nil),
			repo.EXPECT().FindByID(gomock.Any(), "don-1").Return(awaiting(), nil),
		)

		require.NoError(t, ledger.AttachProviderSession(context.Background(), "don-1", "pi_123", ""))
	})
}

func TestLedgerService_MarkCompleted(t *testing.T) {
	rate := decimal.RequireFromString("1.53846154")

	t.Run("AppliesOneOff", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		repo.EXPECT().FindByID(gomock.Any(), "don-1").
			Return(&model.DonationRecord{
				ID:                "don-1",
				Status:            model.StatusAwaitingConfirm,
				Frequency:         model.FrequencyOneOff,
				ProviderPaymentID: "pi_123",
			}, nil)
		repo.EXPECT().
			MarkTerminal(gomock.Any(), "don-1", model.StatusCompleted, gomock.Any(), "").
			DoAndReturn(func(_ context.Context, _ string, _ model.DonationStatus, gotRate decimal.Decimal, _ string) (int64, error) {
				assert.True(t, gotRate.Equal(rate))
				return 1, nil
			})

		applied, err := ledger.MarkCompleted(context.Background(), "don-1", "pi_123", rate)
		require.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("RecurringBecomesActiveSubscription", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		repo.EXPECT().FindByID(gomock.Any(), "don-2").
			Return(&model.DonationRecord{
				ID:                     "don-2",
				Status:                 model.StatusAwaitingConfirm,
				Frequency:              model.FrequencyMonthly,
				ProviderSubscriptionID: "sub_9",
			}, nil)
		repo.EXPECT().
			MarkTerminal(gomock.Any(), "don-2", model.StatusActiveSubscription, gomock.Any(), "").
			Return(int64(1), nil)

		applied, err := ledger.MarkCompleted(context.Background(), "don-2", "sub_9", decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("ZeroRateDefaultsToOne", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		repo.EXPECT().FindByID(gomock.Any(), "don-1").
			Return(&model.DonationRecord{
				ID:                "don-1",
				Status:            model.StatusAwaitingConfirm,
				Frequency:         model.FrequencyOneOff,
				ProviderPaymentID: "pi_123",
			}, nil)
		repo.EXPECT().
			MarkTerminal(gomock.Any(), "don-1", model.StatusCompleted, gomock.Any(), "").
			DoAndReturn(func(_ context.Context, _ string, _ model.DonationStatus, gotRate decimal.Decimal, _ string) (int64, error) {
				assert.True(t, gotRate.Equal(decimal.NewFromInt(1)))
				return 1, nil
			})

		_, err := ledger.MarkCompleted(context.Background(), "don-1", "pi_123", decimal.Zero)
		require.NoError(t, err)
	})

	t.Run("RepeatIsIdempotentNoOp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		gomock.InOrder(
			repo.EXPECT().FindByID(gomock.Any(), "don-1").
				Return(&model.DonationRecord{
					ID:                "don-1",
					Status:            model.StatusAwaitingConfirm,
					Frequency:         model.FrequencyOneOff,
					ProviderPaymentID: "pi_123",
				}, nil),
			repo.EXPECT().
				MarkTerminal(gomock.Any(), "don-1", model.StatusCompleted, gomock.Any(), "").
				Return(int64(0), nil),
			repo.EXPECT().FindByID(gomock.Any(), "don-1").
				Return(&model.DonationRecord{
					ID:                "don-1",
					Status:            model.StatusCompleted,
					Frequency:         model.FrequencyOneOff,
					ProviderPaymentID: "pi_123",
				}, nil),
		)

		applied, err := ledger.MarkCompleted(context.Background(), "don-1", "pi_123", decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("SuccessAfterFailureConflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		gomock.InOrder(
			repo.EXPECT().FindByID(gomock.Any(), "don-1").
				Return(&model.DonationRecord{
					ID:                "don-1",
					Status:            model.StatusAwaitingConfirm,
					Frequency:         model.FrequencyOneOff,
					ProviderPaymentID: "pi_123",
				}, nil),
			repo.EXPECT().
				MarkTerminal(gomock.Any(), "don-1", model.StatusCompleted, gomock.Any(), "").
				Return(int64(0), nil),
			repo.EXPECT().FindByID(gomock.Any(), "don-1").
				Return(&model.DonationRecord{
					ID:                "don-1",
					Status:            model.StatusFailed,
					Frequency:         model.FrequencyOneOff,
					ProviderPaymentID: "pi_123",
				}, nil),
		)

		_, err := ledger.MarkCompleted(context.Background(), "don-1", "pi_123", decimal.NewFromInt(1))
		var conflict *apperr.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("MismatchedPaymentIDConflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		repo.EXPECT().FindByID(gomock.Any(), "don-1").
			Return(&model.DonationRecord{
				ID:                "don-1",
				Status:            model.StatusAwaitingConfirm,
				ProviderPaymentID: "pi_123",
			}, nil)

		_, err := ledger.MarkCompleted(context.Background(), "don-1", "pi_wrong", decimal.NewFromInt(1))
		var conflict *apperr.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestLedgerService_MarkFailed(t *testing.T) {
	t.Run("Applies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		repo.EXPECT().
			MarkTerminal(gomock.Any(), "don-1", model.StatusFailed, gomock.Any(), "card declined").
			Return(int64(1), nil)

		require.NoError(t, ledger.MarkFailed(context.Background(), "don-1", "card declined"))
	})

	t.Run("AlreadyFailedIsNoOp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		gomock.InOrder(
			repo.EXPECT().
				MarkTerminal(gomock.Any(), "don-1", model.StatusFailed, gomock.Any(), "card declined").
				Return(int64(0), nil),
			repo.EXPECT().FindByID(gomock.Any(), "don-1").
				Return(&model.DonationRecord{ID: "don-1", Status: model.StatusFailed}, nil),
		)

		require.NoError(t, ledger.MarkFailed(context.Background(), "don-1", "card declined"))
	})

	t.Run("AfterSuccessConflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockDonationRepository(ctrl)
		ledger := service.NewLedgerService(repo)

		gomock.InOrder(
			repo.EXPECT().
				MarkTerminal(gomock.Any(), "don-1", model.StatusFailed, gomock.Any(), "card declined").
				Return(int64(0), nil),
			repo.EXPECT().FindByID(gomock.Any(), "don-1").
				Return(&model.DonationRecord{ID: "don-1", Status: model.StatusCompleted}, nil),
		)

		err := ledger.MarkFailed(context.Background(), "don-1", "card declined")
		var conflict *apperr.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestLedgerService_GetByProviderRef(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockDonationRepository(ctrl)
	ledger := service.NewLedgerService(repo)

	repo.EXPECT().FindByProviderRef(gomock.Any(), "pi_missing").
		Return(nil, gorm.ErrRecordNotFound)

	_, err := ledger.GetByProviderRef(context.Background(), "pi_missing")
	var unknown *apperr.UnknownPaymentError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "pi_missing", unknown.ProviderPaymentID)
}
