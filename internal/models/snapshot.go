package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot mirrors the balance_snapshots table. The (tenant_id,
// account_id, snapshot_date) triple is unique.
type BalanceSnapshot struct {
	SnapshotID    string          `json:"snapshotID"` // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`
	AccountID     string          `json:"accountID"`
	SnapshotDate  time.Time       `json:"snapshotDate"`
	DebitBalance  decimal.Decimal `json:"debitBalance"`
	CreditBalance decimal.Decimal `json:"creditBalance"`
	AuditFields
}

// AuditEvent mirrors the audit_events table. Changes is stored as JSONB.
type AuditEvent struct {
	EventID    string            `json:"eventID"` // Primary Key (UUID)
	TenantID   string            `json:"tenantID"`
	Actor      string            `json:"actor"`
	Action     string            `json:"action"`
	ObjectType string            `json:"objectType"`
	ObjectID   string            `json:"objectID"`
	Changes    map[string]string `json:"changes"`
	CreatedAt  time.Time         `json:"createdAt"`
}
