package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/dto"
)

// invoiceHandler handles HTTP requests related to customer invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.POST("/:id/open", h.openInvoice)
		invoices.POST("/:id/pay", h.payInvoice)
		invoices.DELETE("/:id", h.deleteInvoice)
	}
}

func (h *invoiceHandler) createInvoice(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "create invoice")
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

func (h *invoiceHandler) getInvoice(c *gin.Context) {
	tenantID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "get invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

func (h *invoiceHandler) listInvoices(c *gin.Context) {
	tenantID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), tenantID, params)
	if err != nil {
		respondServiceError(c, logger, err, "list invoices")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *invoiceHandler) openInvoice(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.OpenInvoice(c.Request.Context(), tenantID, c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "open invoice")
		return
	}

	logger.Info("Invoice opened", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

func (h *invoiceHandler) payInvoice(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.PayInvoice(c.Request.Context(), tenantID, c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "pay invoice")
		return
	}

	logger.Info("Invoice marked paid", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), tenantID, c.Param("id"), actor); err != nil {
		respondServiceError(c, logger, err, "delete invoice")
		return
	}

	logger.Info("Invoice deleted", slog.String("invoice_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}
