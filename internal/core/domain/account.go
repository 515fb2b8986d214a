package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance defines whether an account normally carries a debit or credit balance.
type NormalBalance string

const (
	DebitBalance  NormalBalance = "DEBIT"
	CreditBalance NormalBalance = "CREDIT"
)

// Account is a ledger account in a tenant's chart of accounts.
// Codes repeat across tenants but are unique within one.
type Account struct {
	AccountID        string        `json:"accountID"` // Primary Key (UUID)
	TenantID         string        `json:"tenantID"`  // FK -> tenants.tenant_id (Not Null)
	Code             string        `json:"code"`      // Unique per tenant
	Name             string        `json:"name"`
	AccountType      AccountType   `json:"accountType"`
	NormalBalance    NormalBalance `json:"normalBalance"`
	ParentAccountID  string        `json:"parentAccountID"` // Nullable FK -> accounts.account_id (self-referencing)
	Description      string        `json:"description"`
	IsActive         bool          `json:"isActive"`         // Soft deactivation flag
	IsControlAccount bool          `json:"isControlAccount"` // Only valid target for subsidiary-document postings
	AuditFields
}

// DefaultNormalBalance returns the conventional balance side for an account type.
func DefaultNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return DebitBalance
	default:
		return CreditBalance
	}
}
