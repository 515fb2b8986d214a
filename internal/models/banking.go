package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the derived application state of a transaction.
type TransactionStatus string

const (
	TxnUnapplied        TransactionStatus = "UNAPPLIED"
	TxnPartiallyApplied TransactionStatus = "PARTIALLY_APPLIED"
	TxnFullyApplied     TransactionStatus = "FULLY_APPLIED"
)

// BankAccount mirrors the bank_accounts table.
type BankAccount struct {
	BankAccountID   string `json:"bankAccountID"` // Primary Key (UUID)
	TenantID        string `json:"tenantID"`
	Name            string `json:"name"` // Unique per tenant
	NumberMasked    string `json:"numberMasked"`
	CurrencyCode    string `json:"currencyCode"`
	LedgerAccountID string `json:"ledgerAccountID"`
	AuditFields
}

// BankTransaction mirrors the bank_transactions table.
type BankTransaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	TenantID      string            `json:"tenantID"`
	BankAccountID string            `json:"bankAccountID"`
	PaymentDate   time.Time         `json:"paymentDate"`
	Amount        decimal.Decimal   `json:"amount"`
	CurrencyCode  string            `json:"currencyCode"`
	Method        string            `json:"method"`
	Status        TransactionStatus `json:"status"`
	Reference     string            `json:"reference"`
	Description   string            `json:"description"`
	AuditFields
}

// PaymentApplication mirrors the payment_applications table. The
// (transaction_id, document_type, document_id) triple is unique.
type PaymentApplication struct {
	ApplicationID string          `json:"applicationID"` // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`
	TransactionID string          `json:"transactionID"`
	DocumentType  string          `json:"documentType"` // INVOICE or BILL
	DocumentID    string          `json:"documentID"`
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
	EntryID       string          `json:"entryID"`
	AuditFields
}
