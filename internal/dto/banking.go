package dto

import (
	"time"

	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the data needed to create a bank account.
type CreateBankAccountRequest struct {
	Name            string `json:"name" binding:"required"`
	NumberMasked    string `json:"numberMasked"`
	CurrencyCode    string `json:"currencyCode" binding:"required,len=3"`
	LedgerAccountID string `json:"ledgerAccountID" binding:"required"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID   string `json:"bankAccountID"`
	Name            string `json:"name"`
	NumberMasked    string `json:"numberMasked"`
	CurrencyCode    string `json:"currencyCode"`
	LedgerAccountID string `json:"ledgerAccountID"`
}

// ToBankAccountResponse converts a domain.BankAccount to its DTO.
func ToBankAccountResponse(a *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:   a.BankAccountID,
		Name:            a.Name,
		NumberMasked:    a.NumberMasked,
		CurrencyCode:    a.CurrencyCode,
		LedgerAccountID: a.LedgerAccountID,
	}
}

// CreateTransactionRequest defines the data needed to record a bank transaction.
type CreateTransactionRequest struct {
	BankAccountID string          `json:"bankAccountID" binding:"required"`
	PaymentDate   time.Time       `json:"paymentDate" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Method        string          `json:"method" binding:"required,oneof=CASH CHEQUE BANK_TRANSFER CARD OTHER"`
	Reference     string          `json:"reference"`
	Description   string          `json:"description"`
}

// TransactionResponse defines the data returned for a bank transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	BankAccountID string                   `json:"bankAccountID"`
	PaymentDate   time.Time                `json:"paymentDate"`
	Amount        decimal.Decimal          `json:"amount"`
	CurrencyCode  string                   `json:"currencyCode"`
	Method        domain.PaymentMethod     `json:"method"`
	Status        domain.TransactionStatus `json:"status"`
	Reference     string                   `json:"reference,omitempty"`
	Description   string                   `json:"description,omitempty"`
}

// ListTransactionsResponse wraps a page of transactions with the next-page token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.BankTransaction to its DTO.
func ToTransactionResponse(t *domain.BankTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		BankAccountID: t.BankAccountID,
		PaymentDate:   t.PaymentDate,
		Amount:        t.Amount,
		CurrencyCode:  t.CurrencyCode,
		Method:        t.Method,
		Status:        t.Status,
		Reference:     t.Reference,
		Description:   t.Description,
	}
}

// ApplicationItem names one document and the amount applied to it within an
// apply request.
type ApplicationItem struct {
	DocumentKind string          `json:"documentKind" binding:"required,oneof=INVOICE BILL"`
	DocumentID   string          `json:"documentID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// ApplyRequest applies part of a bank transaction to a single document.
type ApplyRequest struct {
	DocumentKind string          `json:"documentKind" binding:"required,oneof=INVOICE BILL"`
	DocumentID   string          `json:"documentID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// ApplyBatchRequest applies a bank transaction to several documents at once.
// The batch succeeds or fails as a whole.
type ApplyBatchRequest struct {
	Items []ApplicationItem `json:"items" binding:"required,min=1,dive"`
}

// ApplicationResponse reports the state of the transaction and the settled
// document after an application.
type ApplicationResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Invoice     *InvoiceResponse    `json:"invoice,omitempty"`
	Bill        *BillResponse       `json:"bill,omitempty"`
}
