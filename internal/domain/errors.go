package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a user-visible failure carrying a stable machine-readable code
// alongside the human message. Internal failures stay plain wrapped errors.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	ErrInsufficientPimentas = &Error{
		Code:    "INSUFFICIENT_PIMENTAS",
		Message: "not enough pimentas for this action",
		Status:  http.StatusPaymentRequired,
	}
	ErrTaxIDRequired = &Error{
		Code:    "CUSTOMER_TAX_ID_REQUIRED",
		Message: "a valid CPF is required to complete this purchase",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidTaxID = &Error{
		Code:    "CUSTOMER_TAX_ID_INVALID",
		Message: "the supplied CPF is not valid",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidPaymentMethod = &Error{
		Code:    "INVALID_PAYMENT_METHOD",
		Message: "unsupported or incomplete payment method",
		Status:  http.StatusBadRequest,
	}
	ErrPackageNotFound = &Error{
		Code:    "PACKAGE_NOT_FOUND",
		Message: "pimenta package not found",
		Status:  http.StatusNotFound,
	}
	ErrUserNotFound = &Error{
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
		Status:  http.StatusNotFound,
	}
	ErrTransactionNotFound = &Error{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
		Status:  http.StatusNotFound,
	}
	ErrInvalidSignature = &Error{
		Code:    "INVALID_SIGNATURE",
		Message: "webhook signature verification failed",
		Status:  http.StatusUnauthorized,
	}
	ErrReconciliationFailure = &Error{
		Code:    "RECONCILIATION_FAILURE",
		Message: "payment could not be reconciled consistently",
		Status:  http.StatusInternalServerError,
	}
)

// GatewayError wraps a provider rejection, keeping the provider payload for
// diagnostics. No local state is mutated when one of these surfaces.
type GatewayError struct {
	Provider Provider
	Status   int
	Payload  []byte
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s rejected request: status %d: %s", e.Provider, e.Status, e.Payload)
}

// AsError unwraps a coded *Error from err, if one is there.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
