package models

// AccountType follows the five fundamental account classifications.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance indicates which side increases the account.
type NormalBalance string

const (
	DebitBalance  NormalBalance = "DEBIT"
	CreditBalance NormalBalance = "CREDIT"
)

// Account mirrors the accounts table.
type Account struct {
	AccountID        string        `json:"accountID"` // Primary Key (UUID)
	TenantID         string        `json:"tenantID"`
	Code             string        `json:"code"` // Unique per tenant
	Name             string        `json:"name"`
	AccountType      AccountType   `json:"accountType"`
	NormalBalance    NormalBalance `json:"normalBalance"`
	ParentAccountID  string        `json:"parentAccountID"` // Nullable, self-referencing
	Description      string        `json:"description"`
	IsActive         bool          `json:"isActive"`
	IsControlAccount bool          `json:"isControlAccount"`
	AuditFields
}
