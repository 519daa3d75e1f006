package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"charity-donation-backend/internal/model"
)

//go:generate mockgen -source=case.go -destination=case_mock.go -package=repository
type CaseRepository interface {
	Create(ctx context.Context, c *model.Case) error
	FindByID(ctx context.Context, id string) (*model.Case, error)
	ListActive(ctx context.Context) ([]*model.Case, error)
	List(ctx context.Context) ([]*model.Case, error)
	Update(ctx context.Context, c *model.Case) error
	SetActive(ctx context.Context, id string, active bool) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)

	// SetAmountCollected is only ever called by the aggregator; the collected
	// total is derived state, never written from a client request.
	SetAmountCollected(ctx context.Context, id string, amount decimal.Decimal) (int64, error)
}

type caseRepoImpl struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepoImpl{
		db: db,
	}
}

func (r *caseRepoImpl) Create(ctx context.Context, c *model.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caseRepoImpl) FindByID(ctx context.Context, id string) (*model.Case, error) {
	var c model.Case
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error

	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *caseRepoImpl) ListActive(ctx context.Context) ([]*model.Case, error) {
	var cases []*model.Case
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		Find(&cases).Error

	if err != nil {
		return nil, err
	}

	return cases, nil
}

func (r *caseRepoImpl) List(ctx context.Context) ([]*model.Case, error) {
	var cases []*model.Case
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&cases).Error

	if err != nil {
		return nil, err
	}

	return cases, nil
}

func (r *caseRepoImpl) Update(ctx context.Context, c *model.Case) error {
	return r.db.WithContext(ctx).Model(&model.Case{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"title":             c.Title,
			"description":       c.Description,
			"currency":          c.Currency,
			"amount_required":   c.AmountRequired,
			"active":            c.Active,
			"recurring_allowed": c.RecurringAllowed,
			"updated_at":        time.Now(),
		}).Error
}

func (r *caseRepoImpl) SetActive(ctx context.Context, id string, active bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Case{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     active,
			"updated_at": time.Now(),
		})

	return result.RowsAffected, result.Error
}

func (r *caseRepoImpl) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Case{})

	return result.RowsAffected, result.Error
}

func (r *caseRepoImpl) SetAmountCollected(ctx context.Context, id string, amount decimal.Decimal) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Case{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount_collected": amount,
			"updated_at":       time.Now(),
		})

	return result.RowsAffected, result.Error
}
