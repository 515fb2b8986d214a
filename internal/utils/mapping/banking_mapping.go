package mapping

import (
	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/ledgerworks/books_backend/internal/models"
)

// ToModelBankAccount converts a domain BankAccount to a model BankAccount
func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID:   d.BankAccountID,
		TenantID:        d.TenantID,
		Name:            d.Name,
		NumberMasked:    d.NumberMasked,
		CurrencyCode:    d.CurrencyCode,
		LedgerAccountID: d.LedgerAccountID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a model BankAccount to a domain BankAccount
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:   m.BankAccountID,
		TenantID:        m.TenantID,
		Name:            m.Name,
		NumberMasked:    m.NumberMasked,
		CurrencyCode:    m.CurrencyCode,
		LedgerAccountID: m.LedgerAccountID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBankTransaction converts a domain BankTransaction to its model
func ToModelBankTransaction(d domain.BankTransaction) models.BankTransaction {
	return models.BankTransaction{
		TransactionID: d.TransactionID,
		TenantID:      d.TenantID,
		BankAccountID: d.BankAccountID,
		PaymentDate:   d.PaymentDate,
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		Method:        string(d.Method),
		Status:        models.TransactionStatus(d.Status),
		Reference:     d.Reference,
		Description:   d.Description,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankTransaction converts a model BankTransaction to its domain form
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID: m.TransactionID,
		TenantID:      m.TenantID,
		BankAccountID: m.BankAccountID,
		PaymentDate:   m.PaymentDate,
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		Method:        domain.PaymentMethod(m.Method),
		Status:        domain.TransactionStatus(m.Status),
		Reference:     m.Reference,
		Description:   m.Description,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPaymentApplication converts a domain PaymentApplication to its model.
// The document reference is flattened into the type/id column pair.
func ToModelPaymentApplication(d domain.PaymentApplication) models.PaymentApplication {
	return models.PaymentApplication{
		ApplicationID: d.ApplicationID,
		TenantID:      d.TenantID,
		TransactionID: d.TransactionID,
		DocumentType:  string(d.Document.Kind),
		DocumentID:    d.Document.ID,
		AppliedAmount: d.AppliedAmount,
		EntryID:       d.EntryID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentApplication converts a model PaymentApplication to its domain form
func ToDomainPaymentApplication(m models.PaymentApplication) domain.PaymentApplication {
	return domain.PaymentApplication{
		ApplicationID: m.ApplicationID,
		TenantID:      m.TenantID,
		TransactionID: m.TransactionID,
		Document: domain.DocumentRef{
			Kind: domain.DocumentKind(m.DocumentType),
			ID:   m.DocumentID,
		},
		AppliedAmount: m.AppliedAmount,
		EntryID:       m.EntryID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
