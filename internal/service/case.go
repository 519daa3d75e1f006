package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/dto"
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/repository"
)

type CaseService interface {
	Create(ctx context.Context, req *dto.CaseRequest) (*model.Case, error)
	Get(ctx context.Context, id string) (*model.Case, error)
	ListActive(ctx context.Context) ([]*model.Case, error)
	List(ctx context.Context) ([]*model.Case, error)
	Update(ctx context.Context, id string, req *dto.CaseRequest) (*model.Case, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type caseServiceImpl struct {
	caseRepo repository.CaseRepository
}

func NewCaseService(caseRepo repository.CaseRepository) CaseService {
	return &caseServiceImpl{
		caseRepo: caseRepo,
	}
}

func parseCaseRequest(req *dto.CaseRequest) (decimal.Decimal, string, error) {
	required, err := decimal.NewFromString(req.AmountRequired)
	if err != nil || !required.IsPositive() {
		return decimal.Zero, "", apperr.Validation("amount_required", "must be a positive amount")
	}
	currency := strings.ToUpper(req.Currency)
	if !currencyCodeRe.MatchString(currency) {
		return decimal.Zero, "", apperr.Validation("currency", "must be a 3-letter ISO code")
	}
	return required, currency, nil
}

func (s *caseServiceImpl) Create(ctx context.Context, req *dto.CaseRequest) (*model.Case, error) {
	required, currency, err := parseCaseRequest(req)
	if err != nil {
		return nil, err
	}

	c := &model.Case{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Currency:        currency,
		AmountRequired:  required,
		AmountCollected: decimal.Zero,
		Active:          true,
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if req.RecurringAllowed != nil {
		c.RecurringAllowed = *req.RecurringAllowed
	}

	if err := s.caseRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *caseServiceImpl) Get(ctx context.Context, id string) (*model.Case, error) {
	c, err := s.caseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("case", id)
		}
		return nil, err
	}
	return c, nil
}

func (s *caseServiceImpl) ListActive(ctx context.Context) ([]*model.Case, error) {
	return s.caseRepo.ListActive(ctx)
}

func (s *caseServiceImpl) List(ctx context.Context) ([]*model.Case, error) {
	return s.caseRepo.List(ctx)
}

func (s *caseServiceImpl) Update(ctx context.Context, id string, req *dto.CaseRequest) (*model.Case, error) {
	required, currency, err := parseCaseRequest(req)
	if err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Title = req.Title
	c.Description = req.Description
	c.Currency = currency
	c.AmountRequired = required
	if req.Active != nil {
		c.Active = *req.Active
	}
	if req.RecurringAllowed != nil {
		c.RecurringAllowed = *req.RecurringAllowed
	}

	// AmountCollected is untouched here: only the aggregator writes it
	if err := s.caseRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *caseServiceImpl) SetActive(ctx context.Context, id string, active bool) error {
	rows, err := s.caseRepo.SetActive(ctx, id, active)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("case", id)
	}
	return nil
}

func (s *caseServiceImpl) Delete(ctx context.Context, id string) error {
	rows, err := s.caseRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("case", id)
	}
	return nil
}
