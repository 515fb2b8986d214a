package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/dto"
)

// billHandler handles HTTP requests related to vendor bills.
type billHandler struct {
	billService portssvc.BillSvcFacade
}

// registerBillRoutes registers routes related to bills.
func registerBillRoutes(rg *gin.RouterGroup, billService portssvc.BillSvcFacade) {
	h := &billHandler{billService: billService}

	bills := rg.Group("/bills")
	{
		bills.POST("", h.createBill)
		bills.GET("", h.listBills)
		bills.GET("/:id", h.getBill)
		bills.POST("/:id/post", h.postBill)
		bills.POST("/:id/pay", h.payBill)
		bills.DELETE("/:id", h.deleteBill)
	}
}

func (h *billHandler) createBill(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "create bill")
		return
	}

	logger.Info("Bill created", slog.String("bill_id", bill.BillID), slog.String("number", bill.BillNumber))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

func (h *billHandler) getBill(c *gin.Context) {
	tenantID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "get bill")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

func (h *billHandler) listBills(c *gin.Context) {
	tenantID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.billService.ListBills(c.Request.Context(), tenantID, params)
	if err != nil {
		respondServiceError(c, logger, err, "list bills")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *billHandler) postBill(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	bill, err := h.billService.PostBill(c.Request.Context(), tenantID, c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "post bill")
		return
	}

	logger.Info("Bill posted", slog.String("bill_id", bill.BillID))
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

func (h *billHandler) payBill(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	bill, err := h.billService.PayBill(c.Request.Context(), tenantID, c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "pay bill")
		return
	}

	logger.Info("Bill marked paid", slog.String("bill_id", bill.BillID))
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

func (h *billHandler) deleteBill(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	if err := h.billService.DeleteBill(c.Request.Context(), tenantID, c.Param("id"), actor); err != nil {
		respondServiceError(c, logger, err, "delete bill")
		return
	}

	logger.Info("Bill deleted", slog.String("bill_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}
