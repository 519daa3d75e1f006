package apperr

import "fmt"

// ValidationError reports bad client input. User-correctable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports an unknown donation or case id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports an illegal state transition, e.g. a session bound to
// a different provider id or a terminal event arriving after failure.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

func Conflict(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// UnknownPaymentError means a provider notification references a payment id
// the ledger has never seen. May be a race with an uncommitted write; the
// provider's own redelivery is the retry mechanism.
type UnknownPaymentError struct {
	Provider          string
	ProviderPaymentID string
}

func (e *UnknownPaymentError) Error() string {
	return fmt.Sprintf("unknown payment %s/%s", e.Provider, e.ProviderPaymentID)
}

func UnknownPayment(provider, providerPaymentID string) *UnknownPaymentError {
	return &UnknownPaymentError{Provider: provider, ProviderPaymentID: providerPaymentID}
}

// ProviderUnavailableError wraps a network or timeout failure talking to a
// payment provider.
type ProviderUnavailableError struct {
	Provider string
	Err      error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error { return e.Err }

func ProviderUnavailable(provider string, err error) *ProviderUnavailableError {
	return &ProviderUnavailableError{Provider: provider, Err: err}
}

// EmailDeliveryError is non-fatal. Logged, never propagated to a caller.
type EmailDeliveryError struct {
	Recipient string
	Err       error
}

func (e *EmailDeliveryError) Error() string {
	return fmt.Sprintf("email to %s failed: %v", e.Recipient, e.Err)
}

func (e *EmailDeliveryError) Unwrap() error { return e.Err }

func EmailDelivery(recipient string, err error) *EmailDeliveryError {
	return &EmailDeliveryError{Recipient: recipient, Err: err}
}
