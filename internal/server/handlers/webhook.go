package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/reconciler"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
)

type WebhookHandler struct {
	reconcilerSvc reconciler.IReconcilerService
	logger        zerolog.Logger
}

func NewWebhookHandler(reconcilerSvc reconciler.IReconcilerService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		reconcilerSvc: reconcilerSvc,
		logger:        logger,
	}
}

func (h *WebhookHandler) HandlePagarme(c *gin.Context) {
	h.handle(c, domain.ProviderPagarme, c.GetHeader("X-Hub-Signature"))
}

func (h *WebhookHandler) HandlePicPay(c *gin.Context) {
	h.handle(c, domain.ProviderPicPay, c.GetHeader("x-seller-token"))
}

func (h *WebhookHandler) handle(c *gin.Context, provider domain.Provider, signature string) {
	// The raw bytes must reach the reconciler untouched: the signature is
	// recomputed over them before anything is parsed.
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_REQUEST",
			"message": "failed to read request body",
		})
		return
	}

	result, err := h.reconcilerSvc.HandleWebhook(c.Request.Context(), provider, raw, signature)
	if err != nil {
		if coded, ok := domain.AsError(err); ok {
			if coded == domain.ErrInvalidSignature {
				c.JSON(http.StatusUnauthorized, gin.H{
					"code":    coded.Code,
					"message": coded.Message,
				})
				return
			}
			// Any other coded failure on this endpoint is a server-side
			// problem; a 5xx keeps the event in the provider's retry queue.
			h.logger.Error().Err(err).Str("provider", string(provider)).Msg("Webhook processing failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    coded.Code,
				"message": coded.Message,
			})
			return
		}
		// Storage and reconciliation failures return 5xx so the provider
		// redelivers through its own retry mechanism.
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": string(result.Outcome)})
}
