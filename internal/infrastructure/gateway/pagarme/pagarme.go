package pagarme

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/gateway"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/pkg/config"
)

// statusTable is the fixed mapping from Pagar.me's order/charge vocabulary to
// the canonical statuses. Anything unmapped resolves to pending, never paid.
var statusTable = map[string]domain.TransactionStatus{
	"paid":                        domain.StatusPaid,
	"authorized_pending_capture":  domain.StatusAuthorized,
	"pending":                     domain.StatusPending,
	"processing":                  domain.StatusPending,
	"generated":                   domain.StatusPending,
	"waiting_payment":             domain.StatusPending,
	"failed":                      domain.StatusDeclined,
	"refused":                     domain.StatusDeclined,
	"not_authorized":              domain.StatusDeclined,
	"canceled":                    domain.StatusCanceled,
	"voided":                      domain.StatusCanceled,
	"expired":                     domain.StatusCanceled,
}

type Adapter struct {
	client        *gateway.Client
	apiKey        string
	webhookSecret string
	logger        zerolog.Logger
}

func New(cfg config.GatewayConfig, logger zerolog.Logger) *Adapter {
	return &Adapter{
		client:        gateway.NewClient(domain.ProviderPagarme, cfg, logger),
		apiKey:        cfg.APIKey,
		webhookSecret: cfg.WebhookSecret,
		logger:        logger,
	}
}

func (a *Adapter) Name() domain.Provider {
	return domain.ProviderPagarme
}

type orderRequest struct {
	Code     string         `json:"code"`
	Customer orderCustomer  `json:"customer"`
	Items    []orderItem    `json:"items"`
	Payments []orderPayment `json:"payments"`
}

type orderCustomer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
	Type     string `json:"type"`
}

type orderItem struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Quantity    int    `json:"quantity"`
}

type orderPayment struct {
	PaymentMethod string       `json:"payment_method"`
	Pix           *pixPayment  `json:"pix,omitempty"`
	CreditCard    *cardPayment `json:"credit_card,omitempty"`
}

type pixPayment struct {
	ExpiresIn int `json:"expires_in"`
}

type cardPayment struct {
	CardToken string   `json:"card_token"`
	Card      cardInfo `json:"card"`
}

type cardInfo struct {
	HolderName string `json:"holder_name"`
}

type orderResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Status  string `json:"status"`
	Charges []struct {
		ID              string `json:"id"`
		Status          string `json:"status"`
		LastTransaction struct {
			ID        string `json:"id"`
			Status    string `json:"status"`
			QRCode    string `json:"qr_code"`
			QRCodeURL string `json:"qr_code_url"`
		} `json:"last_transaction"`
	} `json:"charges"`
}

func (a *Adapter) CreateCharge(ctx context.Context, req *gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	payment, err := buildPayment(req)
	if err != nil {
		return nil, err
	}

	order := orderRequest{
		Code: req.TransactionID,
		Customer: orderCustomer{
			Name:     req.Customer.Name,
			Email:    req.Customer.Email,
			Document: req.Customer.TaxID,
			Type:     "individual",
		},
		Items: []orderItem{{
			Description: req.Description,
			Amount:      req.AmountCents,
			Quantity:    1,
		}},
		Payments: []orderPayment{payment},
	}

	headers := map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(a.apiKey+":")),
		// Fresh key per call: network-level retries of the same attempt do
		// not create duplicate charges, a new checkout always gets a new key.
		"Idempotency-Key": uuid.NewString(),
	}

	var resp orderResponse
	if err := a.client.Do(ctx, "POST", "/core/v5/orders", headers, order, &resp); err != nil {
		return nil, err
	}

	result := &gateway.ChargeResult{
		OrderID: resp.ID,
		Status:  a.MapStatus(resp.Status),
	}
	if len(resp.Charges) > 0 {
		charge := resp.Charges[0]
		result.ChargeID = charge.ID
		result.Status = a.MapStatus(charge.Status)
		result.PixQRCode = charge.LastTransaction.QRCode
		result.PixQRCodeURL = charge.LastTransaction.QRCodeURL
	}
	if raw, err := json.Marshal(resp); err == nil {
		result.Raw = raw
	}

	a.logger.Info().
		Str("transaction_id", req.TransactionID).
		Str("order_id", result.OrderID).
		Str("charge_id", result.ChargeID).
		Msg("Pagar.me order created")

	return result, nil
}

func buildPayment(req *gateway.ChargeRequest) (orderPayment, error) {
	switch req.Method {
	case domain.MethodPix:
		return orderPayment{
			PaymentMethod: "pix",
			Pix:           &pixPayment{ExpiresIn: 3600},
		}, nil
	case domain.MethodCard:
		if req.Card == nil || req.Card.Token == "" || req.Card.HolderName == "" {
			return orderPayment{}, domain.ErrInvalidPaymentMethod
		}
		return orderPayment{
			PaymentMethod: "credit_card",
			CreditCard: &cardPayment{
				CardToken: req.Card.Token,
				Card:      cardInfo{HolderName: req.Card.HolderName},
			},
		}, nil
	}
	return orderPayment{}, domain.ErrInvalidPaymentMethod
}

// VerifySignature recomputes the HMAC-SHA256 of the exact raw request bytes
// and compares it against the X-Hub-Signature header value.
func (a *Adapter) VerifySignature(raw []byte, header string) error {
	if a.webhookSecret == "" {
		return fmt.Errorf("pagarme webhook secret not configured: %w", domain.ErrInvalidSignature)
	}
	if header == "" {
		return domain.ErrInvalidSignature
	}

	supplied := strings.TrimPrefix(header, "sha256=")
	suppliedBytes, err := hex.DecodeString(supplied)
	if err != nil {
		return domain.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(a.webhookSecret))
	mac.Write(raw)
	if !hmac.Equal(mac.Sum(nil), suppliedBytes) {
		return domain.ErrInvalidSignature
	}
	return nil
}

type webhookPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		ID      string `json:"id"`
		Code    string `json:"code"`
		Status  string `json:"status"`
		Charges []struct {
			ID              string `json:"id"`
			Status          string `json:"status"`
			LastTransaction struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"last_transaction"`
		} `json:"charges"`
	} `json:"data"`
}

func (a *Adapter) ParseEvent(raw []byte) (*domain.WebhookEvent, error) {
	var payload webhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse pagarme webhook payload: %w", err)
	}

	event := &domain.WebhookEvent{
		Provider:    domain.ProviderPagarme,
		ReferenceID: payload.Data.Code,
		ChargeID:    payload.Data.ID,
		RawStatus:   payload.Data.Status,
		Raw:         raw,
	}

	// Charge-level status wins over the order-level one, with the pix
	// transaction status in between.
	if len(payload.Data.Charges) > 0 {
		charge := payload.Data.Charges[0]
		if charge.ID != "" {
			event.ChargeID = charge.ID
		}
		event.PixID = charge.LastTransaction.ID
		if charge.Status != "" {
			event.RawStatus = charge.Status
		} else if charge.LastTransaction.Status != "" {
			event.RawStatus = charge.LastTransaction.Status
		}
	}

	return event, nil
}

func (a *Adapter) MapStatus(raw string) domain.TransactionStatus {
	if status, ok := statusTable[strings.ToLower(raw)]; ok {
		return status
	}
	return domain.StatusPending
}
