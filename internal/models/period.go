package models

import "time"

// Period mirrors the accounting_periods table.
type Period struct {
	PeriodID  string    `json:"periodID"` // Primary Key (UUID)
	TenantID  string    `json:"tenantID"`
	Name      string    `json:"name"` // Unique per tenant
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsClosed  bool      `json:"isClosed"`
	AuditFields
}

// Tenant mirrors the tenants table.
type Tenant struct {
	TenantID           string `json:"tenantID"` // Primary Key (UUID)
	Name               string `json:"name"`
	FunctionalCurrency string `json:"functionalCurrency"`
	AuditFields
}
