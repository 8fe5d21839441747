package api

import (
	"net/http"

	reqdto "autoservice-workflow/internal/handler/dto/request"
	resdto "autoservice-workflow/internal/handler/dto/response"
	"autoservice-workflow/internal/handler/httperr"
	"autoservice-workflow/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	cmds commands.BillingCommands
}

func NewBillingHandler(cmds commands.BillingCommands) *BillingHandler {
	return &BillingHandler{cmds: cmds}
}

// @Summary Create invoice
// @Description Issue the invoice of an appointment with the next invoice number
// @Tags billing
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body reqdto.CreateInvoiceRequest true "Create invoice request"
// @Success 201 {object} resdto.InvoiceResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /appointments/{id}/invoice [post]
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	inv, err := h.cmds.CreateInvoice(c.Request.Context(), id, req.TotalAmountCents)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	res, err := resdto.FromInvoice(inv)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary Record payment
// @Description Settle the appointment's invoice in full
// @Tags billing
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body reqdto.RecordPaymentRequest true "Record payment request"
// @Success 201 {object} resdto.PaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /appointments/{id}/payments [post]
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	payment, err := h.cmds.RecordPayment(c.Request.Context(), req.ToCommand(id))
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	res, err := resdto.FromPayment(payment)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusCreated, res)
}
