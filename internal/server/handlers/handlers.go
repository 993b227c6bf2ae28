package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/checkout"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/quota"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/reconciler"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/server/middleware"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/server/websocket"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/pkg/config"
)

type Handlers struct {
	CheckoutSvc   checkout.ICheckoutService
	ReconcilerSvc reconciler.IReconcilerService
	QuotaSvc      quota.IQuotaService
	Hub           *websocket.Hub
	Logger        zerolog.Logger
	Config        *config.Config
}

func New(
	checkoutSvc checkout.ICheckoutService,
	reconcilerSvc reconciler.IReconcilerService,
	quotaSvc quota.IQuotaService,
	hub *websocket.Hub,
	logger zerolog.Logger,
	config *config.Config,
) *Handlers {
	return &Handlers{
		CheckoutSvc:   checkoutSvc,
		ReconcilerSvc: reconcilerSvc,
		QuotaSvc:      quotaSvc,
		Hub:           hub,
		Logger:        logger,
		Config:        config,
	}
}

func (h *Handlers) SetupHandlers(router *gin.Engine, mw *middleware.Middleware) {
	pimentaHandler := NewPimentaHandler(h.CheckoutSvc, h.QuotaSvc, h.Logger)
	webhookHandler := NewWebhookHandler(h.ReconcilerSvc, h.Logger)
	messageHandler := NewMessageHandler(h.QuotaSvc, h.Hub, h.Logger)
	statusHandler := NewStatusHandler(h.Hub, h.Logger)
	healthHandler := NewHealthHandler()

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	v1 := router.Group("/v1")
	{
		// Provider callbacks are public: they authenticate with their own
		// signature scheme, not with a user token.
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/pagarme", webhookHandler.HandlePagarme)
			webhooks.POST("/picpay", webhookHandler.HandlePicPay)
		}

		pimentas := v1.Group("/pimentas")
		{
			pimentas.GET("/packages", pimentaHandler.ListPackages)
			pimentas.GET("/balance", mw.AuthMiddleware(), pimentaHandler.GetBalance)
			pimentas.POST("/checkout", mw.AuthMiddleware(), pimentaHandler.Checkout)
			pimentas.GET("/transactions/:id", mw.AuthMiddleware(), pimentaHandler.GetTransaction)
		}

		messages := v1.Group("/messages", mw.AuthMiddleware())
		{
			messages.POST("", messageHandler.SendMessage)
			messages.GET("/:user_id", messageHandler.GetConversation)
		}

		v1.GET("/status", mw.AuthMiddleware(), statusHandler.HandleConnection)
	}
}

// respondError maps service failures onto the wire: coded domain errors keep
// their status and machine-readable code, gateway rejections become 502.
func respondError(c *gin.Context, logger zerolog.Logger, err error) {
	if coded, ok := domain.AsError(err); ok {
		c.JSON(coded.Status, gin.H{
			"code":    coded.Code,
			"message": coded.Message,
		})
		return
	}

	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		logger.Error().Err(err).Msg("Gateway rejected request")
		c.JSON(http.StatusBadGateway, gin.H{
			"code":    "GATEWAY_ERROR",
			"message": "payment provider rejected the request",
		})
		return
	}

	logger.Error().Err(err).Msg("Unhandled service error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "INTERNAL_ERROR",
		"message": "internal server error",
	})
}

func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
