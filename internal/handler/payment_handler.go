package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/service"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
	"github.com/yated-center/yated-crm-api/pkg/response"
)

// PaymentHandler exposes the payment and billing endpoints.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler constructs a payment handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// Add records one payment.
func (h *PaymentHandler) Add(c *gin.Context) {
	var req dto.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	receipt, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}

// Billing returns the per-month payment matrix.
func (h *PaymentHandler) Billing(c *gin.Context) {
	overview, err := h.service.Billing(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview)
}

// BillingExport streams the billing overview as CSV or PDF.
func (h *PaymentHandler) BillingExport(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.BillingExport(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=billing.%s", format))
	c.Data(http.StatusOK, contentType, payload)
}
