package models

// Customer mirrors the customers table.
type Customer struct {
	CustomerID         string `json:"customerID"` // Primary Key (UUID)
	TenantID           string `json:"tenantID"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	DefaultARAccountID string `json:"defaultARAccountID"`
	AuditFields
}

// Vendor mirrors the vendors table.
type Vendor struct {
	VendorID           string `json:"vendorID"` // Primary Key (UUID)
	TenantID           string `json:"tenantID"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	DefaultAPAccountID string `json:"defaultAPAccountID"`
	AuditFields
}
