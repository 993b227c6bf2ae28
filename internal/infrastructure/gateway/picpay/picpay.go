package picpay

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/gateway"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/pkg/config"
)

var statusTable = map[string]domain.TransactionStatus{
	"created":    domain.StatusPending,
	"analysis":   domain.StatusPending,
	"paid":       domain.StatusPaid,
	"completed":  domain.StatusPaid,
	"expired":    domain.StatusCanceled,
	"refunded":   domain.StatusCanceled,
	"chargeback": domain.StatusCanceled,
}

type Adapter struct {
	client      *gateway.Client
	apiKey      string
	sellerToken string
	logger      zerolog.Logger
}

func New(cfg config.GatewayConfig, logger zerolog.Logger) *Adapter {
	return &Adapter{
		client:      gateway.NewClient(domain.ProviderPicPay, cfg, logger),
		apiKey:      cfg.APIKey,
		sellerToken: cfg.WebhookSecret,
		logger:      logger,
	}
}

func (a *Adapter) Name() domain.Provider {
	return domain.ProviderPicPay
}

type paymentRequest struct {
	ReferenceID string  `json:"referenceId"`
	Value       float64 `json:"value"`
	Buyer       buyer   `json:"buyer"`
}

type buyer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Document  string `json:"document"`
	Email     string `json:"email"`
}

type paymentResponse struct {
	ReferenceID string `json:"referenceId"`
	PaymentURL  string `json:"paymentUrl"`
	QRCode      struct {
		Content string `json:"content"`
		Base64  string `json:"base64"`
	} `json:"qrcode"`
}

func (a *Adapter) CreateCharge(ctx context.Context, req *gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	// PicPay settles through the wallet only; there is no card leg here.
	if req.Method != domain.MethodPicPay {
		return nil, domain.ErrInvalidPaymentMethod
	}

	first, last := splitName(req.Customer.Name)
	payment := paymentRequest{
		ReferenceID: req.TransactionID,
		Value:       float64(req.AmountCents) / 100.0,
		Buyer: buyer{
			FirstName: first,
			LastName:  last,
			Document:  req.Customer.TaxID,
			Email:     req.Customer.Email,
		},
	}

	headers := map[string]string{
		"x-picpay-token": a.apiKey,
	}

	var resp paymentResponse
	if err := a.client.Do(ctx, "POST", "/ecommerce/public/payments", headers, payment, &resp); err != nil {
		return nil, err
	}

	result := &gateway.ChargeResult{
		Status:     domain.StatusPending,
		PaymentURL: resp.PaymentURL,
		PixQRCode:  resp.QRCode.Content,
	}
	if raw, err := json.Marshal(resp); err == nil {
		result.Raw = raw
	}

	a.logger.Info().
		Str("transaction_id", req.TransactionID).
		Str("payment_url", resp.PaymentURL).
		Msg("PicPay payment request created")

	return result, nil
}

// VerifySignature compares the x-seller-token header against the configured
// seller token in constant time.
func (a *Adapter) VerifySignature(raw []byte, header string) error {
	if a.sellerToken == "" {
		return fmt.Errorf("picpay seller token not configured: %w", domain.ErrInvalidSignature)
	}
	if subtle.ConstantTimeCompare([]byte(header), []byte(a.sellerToken)) != 1 {
		return domain.ErrInvalidSignature
	}
	return nil
}

type webhookPayload struct {
	ReferenceID     string `json:"referenceId"`
	AuthorizationID string `json:"authorizationId"`
	Status          string `json:"status"`
}

func (a *Adapter) ParseEvent(raw []byte) (*domain.WebhookEvent, error) {
	var payload webhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse picpay webhook payload: %w", err)
	}

	return &domain.WebhookEvent{
		Provider:    domain.ProviderPicPay,
		ReferenceID: payload.ReferenceID,
		ChargeID:    payload.AuthorizationID,
		RawStatus:   payload.Status,
		Raw:         raw,
	}, nil
}

func (a *Adapter) MapStatus(raw string) domain.TransactionStatus {
	if status, ok := statusTable[strings.ToLower(raw)]; ok {
		return status
	}
	return domain.StatusPending
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
