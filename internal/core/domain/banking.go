package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod standardizes how a bank transaction was settled.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCheque       PaymentMethod = "CHEQUE"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCard         PaymentMethod = "CARD"
	MethodOther        PaymentMethod = "OTHER"
)

// TransactionStatus is derived from the sum of a transaction's applications.
type TransactionStatus string

const (
	TxnUnapplied        TransactionStatus = "UNAPPLIED"
	TxnPartiallyApplied TransactionStatus = "PARTIALLY_APPLIED"
	TxnFullyApplied     TransactionStatus = "FULLY_APPLIED"
)

// DeriveTransactionStatus computes a bank transaction's status from the total
// applied so far versus its fixed amount.
func DeriveTransactionStatus(applied, amount decimal.Decimal) TransactionStatus {
	switch {
	case applied.IsZero():
		return TxnUnapplied
	case applied.GreaterThanOrEqual(amount):
		return TxnFullyApplied
	default:
		return TxnPartiallyApplied
	}
}

// BankAccount is a bank account the tenant maintains, linked to the ledger
// account in the chart of accounts that represents it.
type BankAccount struct {
	BankAccountID   string `json:"bankAccountID"` // Primary Key (UUID)
	TenantID        string `json:"tenantID"`
	Name            string `json:"name"` // Unique per tenant
	NumberMasked    string `json:"numberMasked"`
	CurrencyCode    string `json:"currencyCode"`
	LedgerAccountID string `json:"ledgerAccountID"` // FK -> accounts.account_id
	AuditFields
}

// BankTransaction is a single cash movement against a bank account.
// Its amount is fixed; its status follows from the applications against it.
type BankTransaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	TenantID      string            `json:"tenantID"`
	BankAccountID string            `json:"bankAccountID"`
	PaymentDate   time.Time         `json:"paymentDate"`
	Amount        decimal.Decimal   `json:"amount"`
	CurrencyCode  string            `json:"currencyCode"` // Must match the bank account's currency
	Method        PaymentMethod     `json:"method"`
	Status        TransactionStatus `json:"status"`
	Reference     string            `json:"reference"` // Unique per tenant when present
	Description   string            `json:"description"`
	AuditFields
}

// DocumentKind identifies which side of the ledger a payment settles.
type DocumentKind string

const (
	DocInvoice DocumentKind = "INVOICE"
	DocBill    DocumentKind = "BILL"
)

// DocumentRef points a payment application at the invoice or bill it settles.
type DocumentRef struct {
	Kind DocumentKind `json:"kind"`
	ID   string       `json:"id"`
}

// PaymentApplication links part of a bank transaction to an invoice or bill.
// The (transaction, document) pair is unique; re-applying the same pair is
// rejected rather than summed.
type PaymentApplication struct {
	ApplicationID string          `json:"applicationID"` // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`
	TransactionID string          `json:"transactionID"`
	Document      DocumentRef     `json:"document"`
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
	EntryID       string          `json:"entryID"` // Payment journal entry, when posted
	AuditFields
}
