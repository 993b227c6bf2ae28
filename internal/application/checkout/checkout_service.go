package checkout

import (
	"context"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/gateway"
)

type CheckoutRequest struct {
	PackageID string               `json:"package_id" binding:"required"`
	Method    domain.PaymentMethod `json:"payment_method" binding:"required"`
	TaxID     string               `json:"tax_id,omitempty"`
	Card      *CardPayload         `json:"card,omitempty"`
}

type CardPayload struct {
	Token      string `json:"token"`
	HolderName string `json:"holder_name"`
}

// CheckoutResponse returns the gateway-issued payment instructions plus the
// internal transaction id the provider will echo back on its callbacks.
type CheckoutResponse struct {
	TransactionID string                   `json:"transaction_id"`
	Status        domain.TransactionStatus `json:"status"`
	AmountCents   int64                    `json:"amount_cents"`
	Pimentas      int64                    `json:"pimentas"`
	PixQRCode     string                   `json:"pix_qr_code,omitempty"`
	PixQRCodeURL  string                   `json:"pix_qr_code_url,omitempty"`
	PaymentURL    string                   `json:"payment_url,omitempty"`
}

type ICheckoutService interface {
	ListPackages(ctx context.Context) ([]*domain.PimentaPackage, error)
	Checkout(ctx context.Context, userID string, req *CheckoutRequest) (*CheckoutResponse, error)
	GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
}

// GatewayFor picks the adapter that settles a given payment method.
type GatewayFor func(method domain.PaymentMethod) (gateway.Gateway, bool)
