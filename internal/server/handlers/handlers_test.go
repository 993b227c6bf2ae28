package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/checkout"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/quota"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/reconciler"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
)

const testUserID = "7e6f9c0a-0c24-4bb1-9c58-0f1d7f2f6a01"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeReconcilerSvc struct {
	result *reconciler.Result
	err    error

	gotProvider  domain.Provider
	gotRaw       []byte
	gotSignature string
}

func (f *fakeReconcilerSvc) HandleWebhook(ctx context.Context, provider domain.Provider, raw []byte, signatureHeader string) (*reconciler.Result, error) {
	f.gotProvider = provider
	f.gotRaw = raw
	f.gotSignature = signatureHeader
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeCheckoutSvc struct {
	packages    []*domain.PimentaPackage
	response    *checkout.CheckoutResponse
	transaction *domain.Transaction
	err         error
}

func (f *fakeCheckoutSvc) ListPackages(ctx context.Context) ([]*domain.PimentaPackage, error) {
	return f.packages, f.err
}

func (f *fakeCheckoutSvc) Checkout(ctx context.Context, userID string, req *checkout.CheckoutRequest) (*checkout.CheckoutResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeCheckoutSvc) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.transaction, nil
}

type fakeQuotaSvc struct {
	sendResult *quota.SendMessageResult
	messages   []*domain.Message
	balance    int64
	err        error
}

func (f *fakeQuotaSvc) SendMessage(ctx context.Context, senderID string, req *quota.SendMessageRequest) (*quota.SendMessageResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sendResult, nil
}

func (f *fakeQuotaSvc) GetConversation(ctx context.Context, userID, otherID string, limit, offset int) ([]*domain.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.messages, nil
}

func (f *fakeQuotaSvc) GetBalance(ctx context.Context, userID string) (int64, error) {
	return f.balance, f.err
}

// testAuth stands in for the JWT middleware so handler behavior can be tested
// with a known caller.
func testAuth(c *gin.Context) {
	c.Set("user_id", testUserID)
	c.Next()
}

func webhookRouter(svc reconciler.IReconcilerService) *gin.Engine {
	r := gin.New()
	h := NewWebhookHandler(svc, zerolog.Nop())
	r.POST("/v1/webhooks/pagarme", h.HandlePagarme)
	r.POST("/v1/webhooks/picpay", h.HandlePicPay)
	return r
}

func pimentaRouter(checkoutSvc checkout.ICheckoutService, quotaSvc quota.IQuotaService) *gin.Engine {
	r := gin.New()
	h := NewPimentaHandler(checkoutSvc, quotaSvc, zerolog.Nop())
	r.GET("/v1/pimentas/packages", h.ListPackages)
	r.GET("/v1/pimentas/balance", testAuth, h.GetBalance)
	r.POST("/v1/pimentas/checkout", testAuth, h.Checkout)
	r.GET("/v1/pimentas/transactions/:id", testAuth, h.GetTransaction)
	return r
}

func messageRouter(quotaSvc quota.IQuotaService) *gin.Engine {
	r := gin.New()
	h := NewMessageHandler(quotaSvc, nil, zerolog.Nop())
	r.POST("/v1/messages", testAuth, h.SendMessage)
	r.GET("/v1/messages/:user_id", testAuth, h.GetConversation)
	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body []byte, header map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestWebhookPassesRawBodyAndSignature(t *testing.T) {
	svc := &fakeReconcilerSvc{result: &reconciler.Result{Outcome: reconciler.OutcomeApplied}}
	router := webhookRouter(svc)

	body := []byte(`{"type":"order.paid"}`)
	w, decoded := doJSON(t, router, http.MethodPost, "/v1/webhooks/pagarme", body,
		map[string]string{"X-Hub-Signature": "sha256=abc"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "applied", decoded["result"])
	assert.Equal(t, domain.ProviderPagarme, svc.gotProvider)
	assert.Equal(t, body, svc.gotRaw)
	assert.Equal(t, "sha256=abc", svc.gotSignature)
}

func TestWebhookPicPaySellerToken(t *testing.T) {
	svc := &fakeReconcilerSvc{result: &reconciler.Result{Outcome: reconciler.OutcomeUnchanged}}
	router := webhookRouter(svc)

	w, decoded := doJSON(t, router, http.MethodPost, "/v1/webhooks/picpay", []byte(`{}`),
		map[string]string{"x-seller-token": "seller-token"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unchanged", decoded["result"])
	assert.Equal(t, domain.ProviderPicPay, svc.gotProvider)
	assert.Equal(t, "seller-token", svc.gotSignature)
}

func TestWebhookInvalidSignature(t *testing.T) {
	svc := &fakeReconcilerSvc{err: domain.ErrInvalidSignature}
	router := webhookRouter(svc)

	w, decoded := doJSON(t, router, http.MethodPost, "/v1/webhooks/pagarme", []byte(`{}`), nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_SIGNATURE", decoded["code"])
}

func TestWebhookStorageFailureTriggersRedelivery(t *testing.T) {
	svc := &fakeReconcilerSvc{err: errors.New("connection refused")}
	router := webhookRouter(svc)

	w, decoded := doJSON(t, router, http.MethodPost, "/v1/webhooks/pagarme", []byte(`{}`), nil)

	// A 5xx keeps the event in the provider's retry queue.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decoded["code"])
}

func TestWebhookCodedFailureStaysRetryable(t *testing.T) {
	// A coded error out of the atomic unit keeps its code but never its own
	// status on this endpoint: the provider must see a 5xx and redeliver.
	svc := &fakeReconcilerSvc{err: domain.ErrUserNotFound}
	router := webhookRouter(svc)

	w, decoded := doJSON(t, router, http.MethodPost, "/v1/webhooks/pagarme", []byte(`{}`), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", decoded["code"])
}

func TestListPackagesFormatsPrices(t *testing.T) {
	checkoutSvc := &fakeCheckoutSvc{packages: []*domain.PimentaPackage{
		{ID: "p1", Name: "Pacote 500 pimentas", Pimentas: 500, PriceCents: 1990, Active: true},
	}}
	router := pimentaRouter(checkoutSvc, &fakeQuotaSvc{})

	w, decoded := doJSON(t, router, http.MethodGet, "/v1/pimentas/packages", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	packages := decoded["packages"].([]interface{})
	require.Len(t, packages, 1)
	first := packages[0].(map[string]interface{})
	assert.Equal(t, "R$ 19,90", first["price_formatted"])
	assert.Equal(t, float64(1990), first["price_cents"])
}

func TestGetBalance(t *testing.T) {
	router := pimentaRouter(&fakeCheckoutSvc{}, &fakeQuotaSvc{balance: 42})

	w, decoded := doJSON(t, router, http.MethodGet, "/v1/pimentas/balance", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(42), decoded["pimenta_balance"])
}

func TestCheckoutRejectsMalformedBody(t *testing.T) {
	router := pimentaRouter(&fakeCheckoutSvc{}, &fakeQuotaSvc{})

	w, decoded := doJSON(t, router, http.MethodPost, "/v1/pimentas/checkout",
		[]byte(`{"payment_method":"pix"}`), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decoded["code"])
}

func TestCheckoutMapsCodedErrors(t *testing.T) {
	router := pimentaRouter(&fakeCheckoutSvc{err: domain.ErrTaxIDRequired}, &fakeQuotaSvc{})

	body := []byte(`{"package_id":"p1","payment_method":"pix"}`)
	w, decoded := doJSON(t, router, http.MethodPost, "/v1/pimentas/checkout", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CUSTOMER_TAX_ID_REQUIRED", decoded["code"])
}

func TestCheckoutMapsGatewayErrors(t *testing.T) {
	router := pimentaRouter(&fakeCheckoutSvc{
		err: &domain.GatewayError{Provider: domain.ProviderPagarme, Status: 422},
	}, &fakeQuotaSvc{})

	body := []byte(`{"package_id":"p1","payment_method":"pix"}`)
	w, decoded := doJSON(t, router, http.MethodPost, "/v1/pimentas/checkout", body, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "GATEWAY_ERROR", decoded["code"])
}

func TestCheckoutSuccess(t *testing.T) {
	router := pimentaRouter(&fakeCheckoutSvc{response: &checkout.CheckoutResponse{
		TransactionID: "tx-1",
		Status:        domain.StatusPending,
		AmountCents:   1990,
		Pimentas:      500,
		PixQRCode:     "00020126pix-payload",
	}}, &fakeQuotaSvc{})

	body := []byte(`{"package_id":"p1","payment_method":"pix"}`)
	w, decoded := doJSON(t, router, http.MethodPost, "/v1/pimentas/checkout", body, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "tx-1", decoded["transaction_id"])
	assert.Equal(t, "pending", decoded["status"])
	assert.Equal(t, "00020126pix-payload", decoded["pix_qr_code"])
}

func TestSendMessageInsufficientPimentas(t *testing.T) {
	router := messageRouter(&fakeQuotaSvc{err: domain.ErrInsufficientPimentas})

	body := []byte(`{"recipient_id":"2b1c0d9e-8f7a-4c6b-a5d4-e3f2a1b0c902","body":"oi"}`)
	w, decoded := doJSON(t, router, http.MethodPost, "/v1/messages", body, nil)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "INSUFFICIENT_PIMENTAS", decoded["code"])
}

func TestSendMessageIncludesBalanceOnlyWhenDebited(t *testing.T) {
	newBalance := int64(4)
	message := &domain.Message{ID: "m1", SenderID: testUserID, Body: "oi", CostPimentas: 1}
	body := []byte(`{"recipient_id":"2b1c0d9e-8f7a-4c6b-a5d4-e3f2a1b0c902","body":"oi"}`)

	paid := messageRouter(&fakeQuotaSvc{sendResult: &quota.SendMessageResult{
		Message:    message,
		NewBalance: &newBalance,
	}})
	w, decoded := doJSON(t, paid, http.MethodPost, "/v1/messages", body, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(4), decoded["pimenta_balance"])

	free := messageRouter(&fakeQuotaSvc{sendResult: &quota.SendMessageResult{Message: message}})
	w, decoded = doJSON(t, free, http.MethodPost, "/v1/messages", body, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	_, present := decoded["pimenta_balance"]
	assert.False(t, present)
}

func TestGetTransactionNotFound(t *testing.T) {
	router := pimentaRouter(&fakeCheckoutSvc{err: domain.ErrTransactionNotFound}, &fakeQuotaSvc{})

	w, decoded := doJSON(t, router, http.MethodGet, "/v1/pimentas/transactions/tx-404", nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "TRANSACTION_NOT_FOUND", decoded["code"])
}
