package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DonationType string

const (
	TypeZakaat   DonationType = "zakaat"
	TypeSadqah   DonationType = "sadqah"
	TypeInterest DonationType = "interest"
)

type Frequency string

const (
	FrequencyOneOff  Frequency = "one-off"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

type PaymentMethod string

const (
	MethodStripe          PaymentMethod = "stripe"
	MethodPaypal          PaymentMethod = "paypal"
	MethodApplePay        PaymentMethod = "apple_pay"
	MethodGooglePay       PaymentMethod = "google_pay"
	MethodPakistanGateway PaymentMethod = "pakistan_gateway"
)

type DonationStatus string

const (
	StatusPending         DonationStatus = "pending"
	StatusAwaitingConfirm DonationStatus = "awaiting_confirmation"
	StatusCompleted       DonationStatus = "completed"
	StatusFailed          DonationStatus = "failed"
	// StatusActiveSubscription is the terminal state for recurring donations:
	// the first charge succeeded and billing is provider-managed thereafter.
	StatusActiveSubscription DonationStatus = "active_subscription"
)

// Terminal reports whether no further transitions are allowed from s.
func (s DonationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusActiveSubscription
}

// Succeeded reports whether s counts toward a case's collected total.
func (s DonationStatus) Succeeded() bool {
	return s == StatusCompleted || s == StatusActiveSubscription
}

type DonationRecord struct {
	ID            string          `gorm:"primaryKey;size:36;not null"`
	Type          DonationType    `gorm:"size:16;index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency      string          `gorm:"size:8;not null"`
	Frequency     Frequency       `gorm:"size:16;not null"`
	PaymentMethod PaymentMethod   `gorm:"size:32;index;not null"`
	Status        DonationStatus  `gorm:"size:32;index;not null"`
	DonorName     string          `gorm:"size:128"`
	DonorEmail    string          `gorm:"size:256"`
	CoverFees     bool            `gorm:"not null;default:false"`

	// weak reference, no FK constraint
	CaseID *string `gorm:"size:36;index"`

	ProviderPaymentID      string `gorm:"size:128;index"`
	ProviderSubscriptionID string `gorm:"size:128;index"`

	// ExchangeRate is the donation-currency → case-base-currency rate
	// snapshotted at completion time. Aggregation always uses this rate,
	// never the current one.
	ExchangeRate decimal.Decimal `gorm:"type:decimal(16,8)"`
	FailReason   string          `gorm:"size:256"`
	CompletedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Case struct {
	ID               string          `gorm:"primaryKey;size:36;not null"`
	Title            string          `gorm:"size:256;not null"`
	Description      string          `gorm:"type:text"`
	Currency         string          `gorm:"size:8;not null"`
	AmountRequired   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountCollected  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Active           bool            `gorm:"index;not null;default:true"`
	RecurringAllowed bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// WebhookEvent is the dedup record for provider notifications. Rows older
// than the retention window are purged lazily.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:191;not null"`
	Provider    string `gorm:"size:32;index"`
	EventType   string `gorm:"size:64"`
	ProcessedAt time.Time
	CreatedAt   time.Time `gorm:"index"`
}
