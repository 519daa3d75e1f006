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
	"charity-donation-backend/internal/mail"
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/provider"
	"charity-donation-backend/internal/repository"
)

// DedupRetention is how long processed webhook event keys are kept. Provider
// redelivery windows are shorter than this in practice.
const DedupRetention = 24 * time.Hour

// Reconciler advances donation state from asynchronous provider
// notifications and synchronous client confirmations. The two channels race;
// the first terminal transition wins and everything after it is a no-op.
type Reconciler interface {
	Process(ctx context.Context, event *provider.Event) error

	// PurgeDedupWindow drops dedup records older than the retention window.
	PurgeDedupWindow(ctx context.Context) error
}

type reconcilerImpl struct {
	ledger           LedgerService
	caseRepo         repository.CaseRepository
	webhookEventRepo repository.WebhookEventRepository
	aggregator       Aggregator
	dispatcher       mail.Dispatcher
	converter        currency.Converter
}

func NewReconciler(
	ledger LedgerService,
	caseRepo repository.CaseRepository,
	webhookEventRepo repository.WebhookEventRepository,
	aggregator Aggregator,
	dispatcher mail.Dispatcher,
	converter currency.Converter,
) Reconciler {
	return &reconcilerImpl{
		ledger:           ledger,
		caseRepo:         caseRepo,
		webhookEventRepo: webhookEventRepo,
		aggregator:       aggregator,
		dispatcher:       dispatcher,
		converter:        converter,
	}
}

func (r *reconcilerImpl) Process(ctx context.Context, event *provider.Event) error {
	if event == nil {
		return nil
	}

	ref := event.ProviderPaymentID
	if ref == "" {
		ref = event.ProviderSubscriptionID
	}
	if ref == "" {
		return apperr.Validation("event", "no provider payment or subscription id")
	}

	// look the donation up before claiming the dedup key: if the ledger row
	// is not visible yet, the provider's redelivery is our retry
	donation, err := r.ledger.GetByProviderRef(ctx, ref)
	if err != nil {
		var unknown *apperr.UnknownPaymentError
		if errors.As(err, &unknown) {
			return apperr.UnknownPayment(string(event.Provider), ref)
		}
		return err
	}

	fresh, err := r.webhookEventRepo.MarkProcessed(ctx, event.DedupKey(), string(event.Provider), event.EventType)
	if err != nil {
		return err
	}
	if !fresh {
		slog.Info("duplicate provider event discarded",
			"provider", event.Provider, "dedup_key", event.DedupKey())
		return nil
	}

	if event.ProviderSubscriptionID != "" && donation.ProviderSubscriptionID == "" {
		if err := r.ledger.BindProviderSubscription(ctx, donation.ID, event.ProviderSubscriptionID); err != nil {
			slog.Warn("bind provider subscription id",
				"donation_id", donation.ID, "err", err)
		}
	}

	var applyErr error
	switch event.Outcome {
	case provider.OutcomeSucceeded:
		applyErr = r.applySuccess(ctx, donation, ref)
	case provider.OutcomeFailed:
		applyErr = r.applyFailure(ctx, donation, event.Reason)
	default:
		applyErr = apperr.Validation("event", "unknown outcome")
	}

	if applyErr != nil {
		// a transient failure must not consume the event: drop the claim so
		// the provider's redelivery gets another attempt. Conflicts keep it,
		// a redelivery cannot resolve those.
		var conflict *apperr.ConflictError
		if !errors.As(applyErr, &conflict) {
			if err := r.webhookEventRepo.Release(ctx, event.DedupKey()); err != nil {
				slog.Error("release dedup claim",
					"dedup_key", event.DedupKey(), "err", err)
			}
		}
	}
	return applyErr
}

func (r *reconcilerImpl) applySuccess(ctx context.Context, donation *model.DonationRecord, ref string) error {
	rate := r.completionRate(ctx, donation)

	applied, err := r.ledger.MarkCompleted(ctx, donation.ID, ref, rate)
	if err != nil {
		var conflict *apperr.ConflictError
		if errors.As(err, &conflict) {
			// success after recorded failure: anomaly for manual reconciliation
			slog.Error("success event conflicts with terminal state",
				"donation_id", donation.ID, "err", err)
			return err
		}
		return err
	}
	if !applied {
		slog.Info("donation already confirmed, no-op", "donation_id", donation.ID)
		return nil
	}

	// side effects run exactly once, on the applying channel; their failure
	// never rolls back the transition
	if donation.CaseID != nil {
		if err := r.aggregator.RecomputeCollected(ctx, *donation.CaseID); err != nil {
			slog.Error("recompute case total", "case_id", *donation.CaseID, "err", err)
		}
	}
	if donation.Frequency == model.FrequencyOneOff {
		r.dispatcher.DispatchReceipt(donation)
	} else {
		r.dispatcher.DispatchSubscriptionConfirmation(donation)
	}

	return nil
}

func (r *reconcilerImpl) applyFailure(ctx context.Context, donation *model.DonationRecord, reason string) error {
	if reason == "" {
		reason = "payment failed"
	}

	if err := r.ledger.MarkFailed(ctx, donation.ID, reason); err != nil {
		var conflict *apperr.ConflictError
		if errors.As(err, &conflict) {
			// failed arriving after completed: log the anomaly, keep the success
			slog.Warn("failure event after successful completion ignored",
				"donation_id", donation.ID, "err", err)
			return nil
		}
		return err
	}
	return nil
}

// completionRate snapshots the donation→case-currency rate at completion
// time so later aggregation never depends on the current rate.
func (r *reconcilerImpl) completionRate(ctx context.Context, donation *model.DonationRecord) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if donation.CaseID == nil {
		return one
	}

	c, err := r.caseRepo.FindByID(ctx, *donation.CaseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("load case for rate snapshot", "case_id", *donation.CaseID, "err", err)
		}
		return one
	}
	if c.Currency == donation.Currency {
		return one
	}

	rate, err := r.converter.Rate(donation.Currency, c.Currency)
	if err != nil {
		slog.Warn("no exchange rate at completion, defaulting to 1",
			"from", donation.Currency, "to", c.Currency)
		return one
	}
	return rate
}

func (r *reconcilerImpl) PurgeDedupWindow(ctx context.Context) error {
	purged, err := r.webhookEventRepo.PurgeOlderThan(ctx, time.Now().Add(-DedupRetention))
	if err != nil {
		return err
	}
	if purged > 0 {
		slog.Debug("purged webhook dedup records", "count", purged)
	}
	return nil
}
