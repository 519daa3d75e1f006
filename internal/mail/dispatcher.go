package mail

import (
	"log/slog"
	"time"

	"charity-donation-backend/internal/model"
)

//go:generate mockgen -source=dispatcher.go -destination=dispatcher_mock.go -package=mail

// Dispatcher sends receipts without blocking the caller. Delivery is best
// effort: a charge already succeeded by the time a receipt goes out, so mail
// failure is only ever logged.
type Dispatcher interface {
	DispatchReceipt(donation *model.DonationRecord)
	DispatchSubscriptionConfirmation(donation *model.DonationRecord)
}

type asyncDispatcher struct {
	mailer   Mailer
	attempts int
	backoff  time.Duration
}

func NewAsyncDispatcher(mailer Mailer) Dispatcher {
	return &asyncDispatcher{
		mailer:   mailer,
		attempts: 3,
		backoff:  5 * time.Second,
	}
}

func (d *asyncDispatcher) DispatchReceipt(donation *model.DonationRecord) {
	go d.withRetry("donation receipt", donation.ID, func() error {
		return d.mailer.SendDonationReceipt(donation)
	})
}

func (d *asyncDispatcher) DispatchSubscriptionConfirmation(donation *model.DonationRecord) {
	go d.withRetry("subscription confirmation", donation.ID, func() error {
		return d.mailer.SendSubscriptionConfirmation(donation)
	})
}

func (d *asyncDispatcher) withRetry(kind, donationID string, send func() error) {
	var err error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		if err = send(); err == nil {
			return
		}
		time.Sleep(time.Duration(attempt) * d.backoff)
	}
	slog.Warn("giving up on email", "kind", kind, "donation_id", donationID, "err", err)
}
