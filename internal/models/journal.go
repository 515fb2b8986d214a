package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry row.
type EntryStatus string

const (
	EntryDraft  EntryStatus = "DRAFT"
	EntryReady  EntryStatus = "READY"
	EntryPosted EntryStatus = "POSTED"
)

// JournalEntry mirrors the journal_entries table. Source references are
// flattened into a type/id column pair.
type JournalEntry struct {
	EntryID            string      `json:"entryID"` // Primary Key (UUID)
	TenantID           string      `json:"tenantID"`
	PeriodID           string      `json:"periodID"` // Nullable FK
	EntryDate          time.Time   `json:"entryDate"`
	Reference          string      `json:"reference"`
	Description        string      `json:"description"`
	Status             EntryStatus `json:"status"`
	PostedAt           *time.Time  `json:"postedAt"`
	PostedBy           string      `json:"postedBy"`
	SourceType         string      `json:"sourceType"` // Empty when manual
	SourceID           string      `json:"sourceID"`
	PostingFingerprint string      `json:"postingFingerprint"`
	AuditFields
}

// JournalLine mirrors the journal_lines table.
type JournalLine struct {
	LineID         string           `json:"lineID"` // Primary Key (UUID)
	EntryID        string           `json:"entryID"`
	TenantID       string           `json:"tenantID"`
	AccountID      string           `json:"accountID"`
	Description    string           `json:"description"`
	CurrencyCode   string           `json:"currencyCode"`
	DebitOriginal  decimal.Decimal  `json:"debitOriginal"`
	CreditOriginal decimal.Decimal  `json:"creditOriginal"`
	FxRate         *decimal.Decimal `json:"fxRate"`
	DebitLocal     decimal.Decimal  `json:"debitLocal"`
	CreditLocal    decimal.Decimal  `json:"creditLocal"`
	DocumentType   string           `json:"documentType"` // Empty when none
	DocumentID     string           `json:"documentID"`
	IsPosted       bool             `json:"isPosted"`
	AuditFields
}
