package dto

import (
	"time"

	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLineRequest defines one line of a draft journal entry.
type CreateEntryLineRequest struct {
	AccountID      string            `json:"accountID" binding:"required"`
	Description    string            `json:"description"`
	CurrencyCode   string            `json:"currencyCode"`
	DebitOriginal  decimal.Decimal   `json:"debitOriginal"`
	CreditOriginal decimal.Decimal   `json:"creditOriginal"`
	FxRate         *decimal.Decimal  `json:"fxRate"`
	Document       *domain.SourceRef `json:"document"`
}

// CreateEntryRequest defines the data needed to create a draft journal entry.
type CreateEntryRequest struct {
	PeriodID    string                   `json:"periodID"`
	EntryDate   time.Time                `json:"entryDate" binding:"required"`
	Reference   string                   `json:"reference"`
	Description string                   `json:"description"`
	Source      *domain.SourceRef        `json:"source"`
	Lines       []CreateEntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateEntryRequest defines the header fields editable on a draft entry.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateEntryRequest struct {
	EntryDate   *time.Time `json:"entryDate"`
	Reference   *string    `json:"reference"`
	Description *string    `json:"description"`
	PeriodID    *string    `json:"periodID"`
}

// TransitionRequest names the status an entry should move to.
type TransitionRequest struct {
	Status domain.EntryStatus `json:"status" binding:"required,oneof=DRAFT READY POSTED"`
}

// EntryLineResponse defines the data returned for a journal line.
type EntryLineResponse struct {
	LineID         string            `json:"lineID"`
	AccountID      string            `json:"accountID"`
	Description    string            `json:"description"`
	CurrencyCode   string            `json:"currencyCode"`
	DebitOriginal  decimal.Decimal   `json:"debitOriginal"`
	CreditOriginal decimal.Decimal   `json:"creditOriginal"`
	FxRate         *decimal.Decimal  `json:"fxRate"`
	DebitLocal     decimal.Decimal   `json:"debitLocal"`
	CreditLocal    decimal.Decimal   `json:"creditLocal"`
	Document       *domain.SourceRef `json:"document,omitempty"`
	IsPosted       bool              `json:"isPosted"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID            string              `json:"entryID"`
	PeriodID           string              `json:"periodID,omitempty"`
	EntryDate          time.Time           `json:"entryDate"`
	Reference          string              `json:"reference,omitempty"`
	Description        string              `json:"description"`
	Status             domain.EntryStatus  `json:"status"`
	PostedAt           *time.Time          `json:"postedAt,omitempty"`
	PostedBy           string              `json:"postedBy,omitempty"`
	Source             *domain.SourceRef   `json:"source,omitempty"`
	PostingFingerprint string              `json:"postingFingerprint,omitempty"`
	Lines              []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	CreatedBy          string              `json:"createdBy"`
}

// ListEntriesResponse wraps a page of entries with the next-page token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain.JournalLine to its DTO.
func ToEntryLineResponse(l *domain.JournalLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:         l.LineID,
		AccountID:      l.AccountID,
		Description:    l.Description,
		CurrencyCode:   l.CurrencyCode,
		DebitOriginal:  l.DebitOriginal,
		CreditOriginal: l.CreditOriginal,
		FxRate:         l.FxRate,
		DebitLocal:     l.DebitLocal,
		CreditLocal:    l.CreditLocal,
		Document:       l.Document,
		IsPosted:       l.IsPosted,
	}
}

// ToEntryResponse converts a domain.JournalEntry (with lines) to its DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:            e.EntryID,
		PeriodID:           e.PeriodID,
		EntryDate:          e.EntryDate,
		Reference:          e.Reference,
		Description:        e.Description,
		Status:             e.Status,
		PostedAt:           e.PostedAt,
		PostedBy:           e.PostedBy,
		Source:             e.Source,
		PostingFingerprint: e.PostingFingerprint,
		CreatedAt:          e.CreatedAt,
		CreatedBy:          e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}
