package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryDraft  EntryStatus = "DRAFT"  // still editable
	EntryReady  EntryStatus = "READY"  // validated but not yet committed
	EntryPosted EntryStatus = "POSTED" // finalized, immutable
)

// entryTransitions is the allowed-edge table for entry statuses.
// No transition regresses state; posted is terminal.
var entryTransitions = map[EntryStatus][]EntryStatus{
	EntryDraft:  {EntryReady, EntryPosted},
	EntryReady:  {EntryPosted},
	EntryPosted: {},
}

// CanTransition reports whether an entry may move from one status to another.
func CanTransition(from, to EntryStatus) bool {
	for _, allowed := range entryTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SourceType identifies the kind of subsidiary document a journal entry or
// line traces back to. Using a closed set keeps invalid kinds unrepresentable.
type SourceType string

const (
	SourceInvoice         SourceType = "INVOICE"
	SourceBill            SourceType = "BILL"
	SourceBankTransaction SourceType = "BANK_TRANSACTION"
	SourceFixedAsset      SourceType = "FIXED_ASSET"
)

// SourceRef is an optional polymorphic reference from a journal entry or line
// back to the business document that generated it.
type SourceRef struct {
	Type SourceType `json:"type"`
	ID   string     `json:"id"`
}

// JournalEntry is the header of one balanced accounting transaction.
type JournalEntry struct {
	EntryID            string      `json:"entryID"`   // Primary Key (UUID)
	TenantID           string      `json:"tenantID"`  // FK -> tenants.tenant_id (Not Null)
	PeriodID           string      `json:"periodID"`  // Nullable FK -> periods.period_id
	EntryDate          time.Time   `json:"entryDate"` // Date the event occurred
	Reference          string      `json:"reference"` // Unique per tenant when present
	Description        string      `json:"description"`
	Status             EntryStatus `json:"status"`
	PostedAt           *time.Time  `json:"postedAt"`
	PostedBy           string      `json:"postedBy"`
	Source             *SourceRef  `json:"source"`             // Traceability back to the generating document
	PostingFingerprint string      `json:"postingFingerprint"` // Set exactly once, when posted
	Lines              []JournalLine
	AuditFields
}

// JournalLine is a single debit or credit within a journal entry.
// Once the parent entry is posted, the line is immutable.
type JournalLine struct {
	LineID         string           `json:"lineID"`   // Primary Key (UUID)
	EntryID        string           `json:"entryID"`  // FK -> journal_entries.entry_id (Not Null)
	TenantID       string           `json:"tenantID"` // Must match the parent entry's tenant
	AccountID      string           `json:"accountID"`
	Description    string           `json:"description"`
	CurrencyCode   string           `json:"currencyCode"`
	DebitOriginal  decimal.Decimal  `json:"debitOriginal"`
	CreditOriginal decimal.Decimal  `json:"creditOriginal"`
	FxRate         *decimal.Decimal `json:"fxRate"` // nil means 1.0
	DebitLocal     decimal.Decimal  `json:"debitLocal"`
	CreditLocal    decimal.Decimal  `json:"creditLocal"`
	Document       *SourceRef       `json:"document"` // At most one subsidiary document per line
	IsPosted       bool             `json:"isPosted"`
	AuditFields
}

// EffectiveFxRate treats a nil rate as 1.0.
func (l JournalLine) EffectiveFxRate() decimal.Decimal {
	if l.FxRate == nil {
		return decimal.NewFromInt(1)
	}
	return *l.FxRate
}

// ValidateAmounts enforces the debit-xor-credit rule: amounts are
// non-negative and exactly one side is positive.
func (l JournalLine) ValidateAmounts() error {
	if l.DebitOriginal.IsNegative() || l.CreditOriginal.IsNegative() {
		return ErrNegativeAmount
	}
	if l.DebitOriginal.IsPositive() && l.CreditOriginal.IsPositive() {
		return ErrBothSidesSet
	}
	if l.DebitOriginal.IsZero() && l.CreditOriginal.IsZero() {
		return ErrNoAmount
	}
	return nil
}

// ValidateFxRate checks the rate against the tenant's functional currency:
// exactly 1 (or absent) when the line currency is the functional currency,
// strictly positive otherwise.
func (l JournalLine) ValidateFxRate(functionalCurrency string) error {
	if l.CurrencyCode == "" || l.CurrencyCode == functionalCurrency {
		if l.FxRate != nil && !l.FxRate.Equal(decimal.NewFromInt(1)) {
			return ErrRateMustBeOne
		}
		return nil
	}
	if l.FxRate == nil || !l.FxRate.IsPositive() {
		return ErrRateNotPositive
	}
	return nil
}

// ComputeLocalAmounts derives the local-currency pair from the original
// amounts and the FX rate, rounding half-up to 2 decimal places. Local
// amounts are always derived, never supplied directly.
func (l *JournalLine) ComputeLocalAmounts() {
	rate := l.EffectiveFxRate()
	l.DebitLocal = l.DebitOriginal.Mul(rate).Round(2)
	l.CreditLocal = l.CreditOriginal.Mul(rate).Round(2)
}

// ComputeTotals sums local debit and credit amounts across the entry's lines.
func (e JournalEntry) ComputeTotals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, line := range e.Lines {
		debits = debits.Add(line.DebitLocal)
		credits = credits.Add(line.CreditLocal)
	}
	return debits, credits
}

// IsBalanced reports whether the double-entry rule holds in local currency.
func (e JournalEntry) IsBalanced() bool {
	debits, credits := e.ComputeTotals()
	return debits.Equal(credits)
}

// postingPayload is the canonical representation of the data that matters for
// financial correctness. It deliberately ignores immaterial metadata
// (timestamps, references, free text outside line descriptions).
type postingPayload struct {
	Date   string             `json:"date"`
	Lines  []postingLine      `json:"lines"`
	Tenant string             `json:"tenant"`
}

type postingLine struct {
	Account string `json:"acct"`
	Credit  string `json:"credit"`
	Debit   string `json:"debit"`
	Desc    string `json:"desc"`
}

// Fingerprint returns a deterministic sha256 digest over the entry's
// financially material content: tenant, entry date, and the ordered
// (by line id) list of (account, debit, credit, description) tuples.
// Equal fingerprints mean a re-post is a safe no-op.
func (e JournalEntry) Fingerprint() string {
	lines := make([]JournalLine, len(e.Lines))
	copy(lines, e.Lines)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].LineID < lines[j].LineID
	})

	payload := postingPayload{
		Date:   e.EntryDate.Format("2006-01-02"),
		Tenant: e.TenantID,
		Lines:  make([]postingLine, len(lines)),
	}
	for i, line := range lines {
		payload.Lines[i] = postingLine{
			Account: line.AccountID,
			Credit:  line.CreditOriginal.StringFixed(2),
			Debit:   line.DebitOriginal.StringFixed(2),
			Desc:    line.Description,
		}
	}

	// Fields are declared in sorted-key order; Marshal preserves it.
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
