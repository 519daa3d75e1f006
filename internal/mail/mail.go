package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/config"
	"charity-donation-backend/internal/model"
)

//go:generate mockgen -source=mail.go -destination=mail_mock.go -package=mail
type Mailer interface {
	SendDonationReceipt(donation *model.DonationRecord) error
	SendSubscriptionConfirmation(donation *model.DonationRecord) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.SMTP) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *smtpMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return apperr.EmailDelivery(to, err)
	}
	return nil
}

func (m *smtpMailer) SendDonationReceipt(donation *model.DonationRecord) error {
	if donation.DonorEmail == "" {
		return nil
	}

	body := fmt.Sprintf(`
	<p>Assalamu alaikum %s,</p>
	<p>Thank you for your donation of <strong>%s %s</strong> (%s).</p>
	<p>Your reference is <code>%s</code>.</p>
	<p>May it be accepted.</p>
	`,
		donation.DonorName,
		donation.Amount.StringFixed(2), donation.Currency,
		donation.Type,
		donation.ID,
	)

	return m.send(donation.DonorEmail, "Your donation receipt", body)
}

func (m *smtpMailer) SendSubscriptionConfirmation(donation *model.DonationRecord) error {
	if donation.DonorEmail == "" {
		return nil
	}

	body := fmt.Sprintf(`
	<p>Assalamu alaikum %s,</p>
	<p>Your %s donation of <strong>%s %s</strong> is now active.</p>
	<p>Your reference is <code>%s</code>.</p>
	`,
		donation.DonorName,
		donation.Frequency,
		donation.Amount.StringFixed(2), donation.Currency,
		donation.ID,
	)

	return m.send(donation.DonorEmail, "Your recurring donation is active", body)
}
