package domain

import "time"

// Period is a tenant-scoped accounting period. Once closed, no posting may
// target it; nothing in the engine re-opens a closed period.
type Period struct {
	PeriodID  string    `json:"periodID"` // Primary Key (UUID)
	TenantID  string    `json:"tenantID"` // FK -> tenants.tenant_id (Not Null)
	Name      string    `json:"name"`     // e.g. "2025-Q3", unique per tenant
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsClosed  bool      `json:"isClosed"`
	AuditFields
}

// Contains reports whether the given date falls inside the period (inclusive).
func (p Period) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}
