package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/checkout"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/quota"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/pkg/currency"
)

type PimentaHandler struct {
	checkoutSvc checkout.ICheckoutService
	quotaSvc    quota.IQuotaService
	logger      zerolog.Logger
}

func NewPimentaHandler(checkoutSvc checkout.ICheckoutService, quotaSvc quota.IQuotaService, logger zerolog.Logger) *PimentaHandler {
	return &PimentaHandler{
		checkoutSvc: checkoutSvc,
		quotaSvc:    quotaSvc,
		logger:      logger,
	}
}

func (h *PimentaHandler) ListPackages(c *gin.Context) {
	packages, err := h.checkoutSvc.ListPackages(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	type packageView struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		Pimentas       int64  `json:"pimentas"`
		PriceCents     int64  `json:"price_cents"`
		PriceFormatted string `json:"price_formatted"`
	}

	views := make([]packageView, 0, len(packages))
	for _, p := range packages {
		views = append(views, packageView{
			ID:             p.ID,
			Name:           p.Name,
			Pimentas:       p.Pimentas,
			PriceCents:     p.PriceCents,
			PriceFormatted: currency.FormatBRL(p.PriceCents),
		})
	}

	c.JSON(http.StatusOK, gin.H{"packages": views})
}

func (h *PimentaHandler) GetBalance(c *gin.Context) {
	balance, err := h.quotaSvc.GetBalance(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pimenta_balance": balance})
}

func (h *PimentaHandler) Checkout(c *gin.Context) {
	var req checkout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_REQUEST",
			"message": err.Error(),
		})
		return
	}

	response, err := h.checkoutSvc.Checkout(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *PimentaHandler) GetTransaction(c *gin.Context) {
	transaction, err := h.checkoutSvc.GetTransaction(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}
