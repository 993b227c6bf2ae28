package gateway

import (
	"context"
	"encoding/json"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
)

type Customer struct {
	Name  string
	Email string
	TaxID string
}

type CardDetails struct {
	Token      string
	HolderName string
}

type ChargeRequest struct {
	TransactionID string
	AmountCents   int64
	Description   string
	Customer      Customer
	Method        domain.PaymentMethod
	Card          *CardDetails
}

// ChargeResult carries the provider-assigned identifiers and whatever
// presentable payment instructions the provider issued. Instructions are
// passed back to the caller unmodified.
type ChargeResult struct {
	OrderID      string
	ChargeID     string
	Status       domain.TransactionStatus
	PixQRCode    string
	PixQRCodeURL string
	PaymentURL   string
	Raw          json.RawMessage
}

// Gateway is the per-provider capability: build outbound charges and
// normalize the provider's callback vocabulary. The reconciler never branches
// on provider names; it only talks to this interface.
type Gateway interface {
	Name() domain.Provider
	CreateCharge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error)
	VerifySignature(raw []byte, header string) error
	ParseEvent(raw []byte) (*domain.WebhookEvent, error)
	MapStatus(raw string) domain.TransactionStatus
}
