package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/currency"
	"charity-donation-backend/internal/repository"
)

// Aggregator keeps Case.AmountCollected equal to the sum of succeeded
// donations for the case. It always recomputes from source records rather
// than incrementing, so reruns can never double-count.
type Aggregator interface {
	RecomputeCollected(ctx context.Context, caseID string) error

	// RunSweep periodically recomputes every active case, healing any total
	// that missed its completion-time trigger. Blocks until ctx is done.
	RunSweep(ctx context.Context, interval time.Duration)
}

type aggregatorImpl struct {
	caseRepo     repository.CaseRepository
	donationRepo repository.DonationRepository
	converter    currency.Converter
	locks        *keyedMutex
}

func NewAggregator(
	caseRepo repository.CaseRepository,
	donationRepo repository.DonationRepository,
	converter currency.Converter,
) Aggregator {
	return &aggregatorImpl{
		caseRepo:     caseRepo,
		donationRepo: donationRepo,
		converter:    converter,
		locks:        newKeyedMutex(),
	}
}

func (a *aggregatorImpl) RecomputeCollected(ctx context.Context, caseID string) error {
	unlock := a.locks.Lock(caseID)
	defer unlock()

	// re-read everything after taking the lock so a completion racing the
	// recompute is either fully included or picked up by the next run
	c, err := a.caseRepo.FindByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("case", caseID)
		}
		return err
	}

	donations, err := a.donationRepo.ListSucceededByCase(ctx, caseID)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, d := range donations {
		amount := d.Amount
		if d.Currency != c.Currency {
			if d.ExchangeRate.IsZero() {
				// no snapshot on the record; fall back to the live rate
				amount, err = currency.Convert(a.converter, d.Amount, d.Currency, c.Currency)
				if err != nil {
					slog.Warn("no exchange rate for donation, skipping",
						"donation_id", d.ID, "from", d.Currency, "to", c.Currency)
					continue
				}
			} else {
				amount = amount.Mul(d.ExchangeRate)
			}
		}
		total = total.Add(amount)
	}

	_, err = a.caseRepo.SetAmountCollected(ctx, caseID, total.Round(2))
	return err
}

func (a *aggregatorImpl) RunSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cases, err := a.caseRepo.ListActive(ctx)
			if err != nil {
				slog.Error("aggregation sweep: list cases", "err", err)
				continue
			}
			for _, c := range cases {
				if err := a.RecomputeCollected(ctx, c.ID); err != nil {
					slog.Error("aggregation sweep: recompute", "case_id", c.ID, "err", err)
				}
			}
		}
	}
}
