package domain

// Customer is the receivable-side party on invoices. Its default AR account
// must be a control account; invoice postings debit it.
type Customer struct {
	CustomerID         string `json:"customerID"` // Primary Key (UUID)
	TenantID           string `json:"tenantID"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	DefaultARAccountID string `json:"defaultARAccountID"` // FK -> accounts.account_id (control)
	AuditFields
}

// Vendor is the payable-side party on bills. Its default AP account must be a
// control account; bill postings credit it.
type Vendor struct {
	VendorID           string `json:"vendorID"` // Primary Key (UUID)
	TenantID           string `json:"tenantID"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	DefaultAPAccountID string `json:"defaultAPAccountID"` // FK -> accounts.account_id (control)
	AuditFields
}
