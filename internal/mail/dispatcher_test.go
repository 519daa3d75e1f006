package mail

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"charity-donation-backend/internal/model"
)

func TestDispatcherRetriesTransientFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := NewMockMailer(ctrl)
	d := &asyncDispatcher{mailer: mailer, attempts: 3, backoff: 0}

	donation := &model.DonationRecord{ID: "don-1", DonorEmail: "donor@example.com"}
	gomock.InOrder(
		mailer.EXPECT().SendDonationReceipt(donation).Return(errors.New("smtp timeout")),
		mailer.EXPECT().SendDonationReceipt(donation).Return(nil),
	)

	d.withRetry("donation receipt", donation.ID, func() error {
		return mailer.SendDonationReceipt(donation)
	})
}

func TestDispatcherGivesUpAfterAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := NewMockMailer(ctrl)
	d := &asyncDispatcher{mailer: mailer, attempts: 3, backoff: 0}

	donation := &model.DonationRecord{ID: "don-1", DonorEmail: "donor@example.com"}
	mailer.EXPECT().SendDonationReceipt(donation).Return(errors.New("smtp down")).Times(3)

	// must return rather than loop forever
	d.withRetry("donation receipt", donation.ID, func() error {
		return mailer.SendDonationReceipt(donation)
	})
}
