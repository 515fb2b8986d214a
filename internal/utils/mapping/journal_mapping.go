package mapping

import (
	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/ledgerworks/books_backend/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry.
// The optional source reference is flattened into the type/id column pair.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:            d.EntryID,
		TenantID:           d.TenantID,
		PeriodID:           d.PeriodID,
		EntryDate:          d.EntryDate,
		Reference:          d.Reference,
		Description:        d.Description,
		Status:             models.EntryStatus(d.Status),
		PostedAt:           d.PostedAt,
		PostedBy:           d.PostedBy,
		PostingFingerprint: d.PostingFingerprint,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
	if d.Source != nil {
		m.SourceType = string(d.Source.Type)
		m.SourceID = d.Source.ID
	}
	return m
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:            m.EntryID,
		TenantID:           m.TenantID,
		PeriodID:           m.PeriodID,
		EntryDate:          m.EntryDate,
		Reference:          m.Reference,
		Description:        m.Description,
		Status:             domain.EntryStatus(m.Status),
		PostedAt:           m.PostedAt,
		PostedBy:           m.PostedBy,
		PostingFingerprint: m.PostingFingerprint,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
	if m.SourceType != "" {
		d.Source = &domain.SourceRef{Type: domain.SourceType(m.SourceType), ID: m.SourceID}
	}
	return d
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	m := models.JournalLine{
		LineID:         d.LineID,
		EntryID:        d.EntryID,
		TenantID:       d.TenantID,
		AccountID:      d.AccountID,
		Description:    d.Description,
		CurrencyCode:   d.CurrencyCode,
		DebitOriginal:  d.DebitOriginal,
		CreditOriginal: d.CreditOriginal,
		FxRate:         d.FxRate,
		DebitLocal:     d.DebitLocal,
		CreditLocal:    d.CreditLocal,
		IsPosted:       d.IsPosted,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
	if d.Document != nil {
		m.DocumentType = string(d.Document.Type)
		m.DocumentID = d.Document.ID
	}
	return m
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	d := domain.JournalLine{
		LineID:         m.LineID,
		EntryID:        m.EntryID,
		TenantID:       m.TenantID,
		AccountID:      m.AccountID,
		Description:    m.Description,
		CurrencyCode:   m.CurrencyCode,
		DebitOriginal:  m.DebitOriginal,
		CreditOriginal: m.CreditOriginal,
		FxRate:         m.FxRate,
		DebitLocal:     m.DebitLocal,
		CreditLocal:    m.CreditLocal,
		IsPosted:       m.IsPosted,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	if m.DocumentType != "" {
		d.Document = &domain.SourceRef{Type: domain.SourceType(m.DocumentType), ID: m.DocumentID}
	}
	return d
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to a slice of domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
