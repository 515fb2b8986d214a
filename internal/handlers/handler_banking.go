package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerworks/books_backend/internal/core/domain"
	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/dto"
)

// bankingHandler handles HTTP requests for bank accounts, transactions and
// payment applications.
type bankingHandler struct {
	bankingService portssvc.BankingSvcFacade
	paymentService portssvc.PaymentSvcFacade
}

// registerBankingRoutes registers routes related to banking and payments.
func registerBankingRoutes(rg *gin.RouterGroup, bankingService portssvc.BankingSvcFacade, paymentService portssvc.PaymentSvcFacade) {
	h := &bankingHandler{bankingService: bankingService, paymentService: paymentService}

	bankAccounts := rg.Group("/bank-accounts")
	{
		bankAccounts.POST("", h.createBankAccount)
	}

	transactions := rg.Group("/bank-transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("/:id/apply", h.applyTransaction)
		transactions.POST("/:id/apply-batch", h.applyTransactionBatch)
	}
}

func (h *bankingHandler) createBankAccount(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	account, err := h.bankingService.CreateBankAccount(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "create bank account")
		return
	}

	logger.Info("Bank account created", slog.String("bank_account_id", account.BankAccountID))
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

func (h *bankingHandler) createTransaction(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	txn, err := h.bankingService.CreateTransaction(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "create transaction")
		return
	}

	logger.Info("Bank transaction recorded", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *bankingHandler) getTransaction(c *gin.Context) {
	tenantID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	txn, err := h.bankingService.GetTransaction(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "get transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *bankingHandler) listTransactions(c *gin.Context) {
	tenantID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.bankingService.ListTransactions(c.Request.Context(), tenantID, params)
	if err != nil {
		respondServiceError(c, logger, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *bankingHandler) applyTransaction(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Apply", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	doc := domain.DocumentRef{Kind: domain.DocumentKind(req.DocumentKind), ID: req.DocumentID}
	result, err := h.paymentService.Apply(c.Request.Context(), tenantID, c.Param("id"), doc, req.Amount, actor)
	if err != nil {
		respondServiceError(c, logger, err, "apply transaction")
		return
	}

	logger.Info("Payment applied",
		slog.String("transaction_id", c.Param("id")),
		slog.String("document_kind", req.DocumentKind),
		slog.String("document_id", req.DocumentID))
	c.JSON(http.StatusOK, toApplicationResponse(result))
}

func (h *bankingHandler) applyTransactionBatch(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.ApplyBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	results, err := h.paymentService.ApplyBatch(c.Request.Context(), tenantID, c.Param("id"), req.Items, actor)
	if err != nil {
		respondServiceError(c, logger, err, "apply transaction batch")
		return
	}

	logger.Info("Payment batch applied",
		slog.String("transaction_id", c.Param("id")),
		slog.Int("applications", len(results)))

	resp := make([]dto.ApplicationResponse, len(results))
	for i := range results {
		resp[i] = toApplicationResponse(&results[i])
	}
	c.JSON(http.StatusOK, gin.H{"applications": resp})
}

func toApplicationResponse(result *portssvc.ApplicationResult) dto.ApplicationResponse {
	resp := dto.ApplicationResponse{Transaction: dto.ToTransactionResponse(result.Transaction)}
	if result.Invoice != nil {
		inv := dto.ToInvoiceResponse(result.Invoice)
		resp.Invoice = &inv
	}
	if result.Bill != nil {
		bill := dto.ToBillResponse(result.Bill)
		resp.Bill = &bill
	}
	return resp
}
