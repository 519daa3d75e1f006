package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"charity-donation-backend/internal/model"
)

//go:generate mockgen -source=donation.go -destination=donation_mock.go -package=repository
type DonationRepository interface {
	Create(ctx context.Context, donation *model.DonationRecord) error
	FindByID(ctx context.Context, id string) (*model.DonationRecord, error)

	// FindByProviderRef looks a donation up by provider payment id or
	// provider subscription id.
	FindByProviderRef(ctx context.Context, ref string) (*model.DonationRecord, error)

	// AttachSession binds provider ids and moves pending →
	// awaiting_confirmation. Returns the number of rows updated; 0 means the
	// record was not in pending.
	AttachSession(ctx context.Context, id, providerPaymentID, providerSubscriptionID string) (int64, error)

	// BindSubscription records the provider subscription id once it becomes
	// known (it often arrives only with the first webhook).
	BindSubscription(ctx context.Context, id, providerSubscriptionID string) error

	// MarkTerminal is the compare-and-swap: it only applies when the current
	// status is still non-terminal, so racing confirmation channels cannot
	// double-apply. Returns the number of rows updated.
	MarkTerminal(ctx context.Context, id string, to model.DonationStatus, exchangeRate decimal.Decimal, failReason string) (int64, error)

	ListByCase(ctx context.Context, caseID string) ([]*model.DonationRecord, error)
	ListSucceededByCase(ctx context.Context, caseID string) ([]*model.DonationRecord, error)
	List(ctx context.Context, status model.DonationStatus, limit, offset int) ([]*model.DonationRecord, error)
}

type donationRepoImpl struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepoImpl{
		db: db,
	}
}

func (r *donationRepoImpl) Create(ctx context.Context, donation *model.DonationRecord) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepoImpl) FindByID(ctx context.Context, id string) (*model.DonationRecord, error) {
	var donation model.DonationRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&donation).Error

	if err != nil {
		return nil, err
	}

	return &donation, nil
}

func (r *donationRepoImpl) FindByProviderRef(ctx context.Context, ref string) (*model.DonationRecord, error) {
	var donation model.DonationRecord
	err := r.db.WithContext(ctx).
		Where("provider_payment_id = ? OR provider_subscription_id = ?", ref, ref).
		First(&donation).Error

	if err != nil {
		return nil, err
	}

	return &donation, nil
}

func (r *donationRepoImpl) AttachSession(ctx context.Context, id, providerPaymentID, providerSubscriptionID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.DonationRecord{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(map[string]interface{}{
			"status":                   model.StatusAwaitingConfirm,
			"provider_payment_id":      providerPaymentID,
			"provider_subscription_id": providerSubscriptionID,
			"updated_at":               time.Now(),
		})

	return result.RowsAffected, result.Error
}

func (r *donationRepoImpl) BindSubscription(ctx context.Context, id, providerSubscriptionID string) error {
	return r.db.WithContext(ctx).Model(&model.DonationRecord{}).
		Where("id = ? AND provider_subscription_id = ?", id, "").
		Updates(map[string]interface{}{
			"provider_subscription_id": providerSubscriptionID,
			"updated_at":               time.Now(),
		}).Error
}

func (r *donationRepoImpl) MarkTerminal(ctx context.Context, id string, to model.DonationStatus, exchangeRate decimal.Decimal, failReason string) (int64, error) {
	if !to.Terminal() {
		return 0, errors.New("target status is not terminal")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	if to.Succeeded() {
		updates["exchange_rate"] = exchangeRate
		updates["completed_at"] = now
	} else {
		updates["fail_reason"] = failReason
	}

	result := r.db.WithContext(ctx).Model(&model.DonationRecord{}).
		Where("id = ? AND status IN ?", id,
			[]model.DonationStatus{model.StatusPending, model.StatusAwaitingConfirm}).
		Updates(updates)

	return result.RowsAffected, result.Error
}

func (r *donationRepoImpl) ListByCase(ctx context.Context, caseID string) ([]*model.DonationRecord, error) {
	var donations []*model.DonationRecord
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at DESC").
		Find(&donations).Error

	if err != nil {
		return nil, err
	}

	return donations, nil
}

func (r *donationRepoImpl) ListSucceededByCase(ctx context.Context, caseID string) ([]*model.DonationRecord, error) {
	var donations []*model.DonationRecord
	err := r.db.WithContext(ctx).
		Where("case_id = ? AND status IN ?", caseID,
			[]model.DonationStatus{model.StatusCompleted, model.StatusActiveSubscription}).
		Find(&donations).Error

	if err != nil {
		return nil, err
	}

	return donations, nil
}

func (r *donationRepoImpl) List(ctx context.Context, status model.DonationStatus, limit, offset int) ([]*model.DonationRecord, error) {
	q := r.db.WithContext(ctx).Model(&model.DonationRecord{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var donations []*model.DonationRecord
	err := q.Offset(offset).Order("created_at DESC").Find(&donations).Error
	if err != nil {
		return nil, err
	}

	return donations, nil
}
