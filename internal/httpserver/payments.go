package httpserver

import (
	"errors"
	"io"
	"net/http"

	"retroshop/internal/domain"
	"retroshop/internal/payment"
	checkoutsvc "retroshop/internal/service/checkout"
	webhooksvc "retroshop/internal/service/webhook"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	Token                string `json:"token" binding:"required"`
	PaymentMethodID      string `json:"paymentMethodId" binding:"required"`
	AddressID            string `json:"addressId" binding:"required"`
	IssuerID             string `json:"issuerId"`
	Installments         int    `json:"installments"`
	RequestID            string `json:"requestId"`
	IdentificationType   string `json:"identificationType"`
	IdentificationNumber string `json:"identificationNumber"`
}

func (h handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token, paymentMethodId and addressId are required"})
		return
	}

	result, err := h.deps.CheckoutSvc.Checkout(c.Request.Context(), currentUserID(c), checkoutsvc.Input{
		Token:                req.Token,
		PaymentMethodID:      req.PaymentMethodID,
		IssuerID:             req.IssuerID,
		Installments:         req.Installments,
		AddressID:            req.AddressID,
		RequestID:            req.RequestID,
		IdentificationType:   req.IdentificationType,
		IdentificationNumber: req.IdentificationNumber,
	})
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h handlers) checkoutError(c *gin.Context, err error) {
	var oos *domain.OutOfStockError
	var rejected *checkoutsvc.RejectedError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
	case errors.Is(err, domain.ErrCartEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.As(err, &oos):
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock", "products": oos.Products})
	case errors.Is(err, checkoutsvc.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable, try again"})
	case errors.As(err, &rejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "payment rejected", "status": rejected.Status, "statusDetail": rejected.Detail})
	case errors.Is(err, checkoutsvc.ErrPersistFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please contact support"})
	default:
		h.logger.Printf("checkout handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
	}
}

func (h handlers) paymentsWebhook(c *gin.Context) {
	// The signature is computed over the raw payload, so the body is read
	// before any parsing.
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	err = h.deps.WebhookSvc.Process(c.Request.Context(), raw, c.GetHeader("X-Signature"), c.GetHeader("X-Request-Id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case errors.Is(err, payment.ErrBadSignature), errors.Is(err, payment.ErrMalformedSignature):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
	case errors.Is(err, webhooksvc.ErrMalformedBody):
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed notification"})
	case errors.Is(err, webhooksvc.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "gateway unavailable"})
	default:
		h.logger.Printf("webhook handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
	}
}
