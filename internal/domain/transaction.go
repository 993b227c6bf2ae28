package domain

import (
	"encoding/json"
	"time"
)

type TransactionStatus string
type ProductKind string
type PaymentMethod string
type Provider string

const (
	StatusPending    TransactionStatus = "pending"
	StatusAuthorized TransactionStatus = "authorized"
	StatusPaid       TransactionStatus = "paid"
	StatusDeclined   TransactionStatus = "declined"
	StatusCanceled   TransactionStatus = "canceled"
)

const (
	ProductPimentaPackage ProductKind = "pimenta_package"
)

const (
	MethodPix    PaymentMethod = "pix"
	MethodCard   PaymentMethod = "credit_card"
	MethodPicPay PaymentMethod = "picpay"
)

const (
	ProviderPagarme Provider = "pagarme"
	ProviderPicPay  Provider = "picpay"
)

// Terminal reports whether the status accepts no further transitions.
func (s TransactionStatus) Terminal() bool {
	switch s {
	case StatusPaid, StatusDeclined, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine accepts moving from s to
// next. Re-applying the current status or leaving a terminal status is not a
// valid transition; callers treat that as already applied, not as an error.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s.Terminal() || s == next {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusAuthorized || next == StatusPaid ||
			next == StatusDeclined || next == StatusCanceled
	case StatusAuthorized:
		return next == StatusPaid
	}
	return false
}

// Transaction records one purchase attempt and its lifecycle. Rows are never
// deleted; they are the audit trail of every charge ever attempted.
type Transaction struct {
	ID              string            `json:"id" db:"id"`
	UserID          string            `json:"user_id" db:"user_id"`
	ProductID       string            `json:"product_id" db:"product_id"`
	ProductKind     ProductKind       `json:"product_kind" db:"product_kind"`
	ProductName     string            `json:"product_name" db:"product_name"`
	AmountCents     int64             `json:"amount_cents" db:"amount_cents"`
	Status          TransactionStatus `json:"status" db:"status"`
	Provider        Provider          `json:"provider" db:"provider"`
	PaymentMethod   PaymentMethod     `json:"payment_method" db:"payment_method"`
	GatewayOrderID  *string           `json:"gateway_order_id" db:"gateway_order_id"`
	GatewayChargeID *string           `json:"gateway_charge_id" db:"gateway_charge_id"`
	Metadata        json.RawMessage   `json:"metadata,omitempty" db:"metadata"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}
