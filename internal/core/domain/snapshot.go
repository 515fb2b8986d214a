package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot holds additive per-account running totals keyed by
// (tenant, account, date). Posting adds each posted line's local amounts to
// the snapshot for the entry's date, exactly once per successful post.
type BalanceSnapshot struct {
	SnapshotID    string          `json:"snapshotID"` // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`
	AccountID     string          `json:"accountID"`
	SnapshotDate  time.Time       `json:"snapshotDate"`
	DebitBalance  decimal.Decimal `json:"debitBalance"`
	CreditBalance decimal.Decimal `json:"creditBalance"`
	AuditFields
}
