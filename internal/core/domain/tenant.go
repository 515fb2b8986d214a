package domain

// Tenant is the isolation boundary for all ledger data. Every other entity
// carries a TenantID, and cross-entity references must agree on it.
type Tenant struct {
	TenantID           string `json:"tenantID"` // Primary Key (UUID)
	Name               string `json:"name"`
	FunctionalCurrency string `json:"functionalCurrency"` // Reporting currency, e.g. "USD"
	AuditFields
}
