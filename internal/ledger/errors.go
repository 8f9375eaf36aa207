package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reason is a machine-readable validation failure code.
type Reason string

const (
	ReasonInsufficientBalance  Reason = "insufficient_balance"
	ReasonInsufficientHoldings Reason = "insufficient_holdings"
	ReasonInvalidAmount        Reason = "invalid_amount"
	ReasonInvalidQuantity      Reason = "invalid_quantity"
	ReasonFractionalQuantity   Reason = "fractional_quantity"
	ReasonMissingProvider      Reason = "missing_provider"
	ReasonUnknownProvider      Reason = "unknown_provider"
	ReasonMissingConsumerID    Reason = "missing_consumer_id"
	ReasonMissingRecipient     Reason = "missing_recipient"
	ReasonInvalidRecipient     Reason = "invalid_recipient"
	ReasonUnsupportedMethod    Reason = "unsupported_method"
	ReasonUnknownService       Reason = "unknown_service"
	ReasonUnknownSymbol        Reason = "unknown_symbol"
	ReasonMissingField         Reason = "missing_field"
	ReasonInvalidMobile        Reason = "invalid_mobile"
	ReasonInvalidEmail         Reason = "invalid_email"
)

// ValidationError is returned when a request is rejected before any state changes.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func reject(reason Reason, format string, args ...any) error {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// HasReason reports whether err is a ValidationError with the given reason.
func HasReason(err error, reason Reason) bool {
	verr, ok := IsValidation(err)
	return ok && verr.Reason == reason
}
