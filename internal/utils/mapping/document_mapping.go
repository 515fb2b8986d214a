package mapping

import (
	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/ledgerworks/books_backend/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice. Lines are
// persisted separately.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		TenantID:      d.TenantID,
		CustomerID:    d.CustomerID,
		InvoiceNumber: d.InvoiceNumber,
		InvoiceDate:   d.InvoiceDate,
		DueDate:       d.DueDate,
		Status:        models.InvoiceStatus(d.Status),
		CurrencyCode:  d.CurrencyCode,
		Total:         d.Total,
		Outstanding:   d.Outstanding,
		Description:   d.Description,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		TenantID:      m.TenantID,
		CustomerID:    m.CustomerID,
		InvoiceNumber: m.InvoiceNumber,
		InvoiceDate:   m.InvoiceDate,
		DueDate:       m.DueDate,
		Status:        domain.InvoiceStatus(m.Status),
		CurrencyCode:  m.CurrencyCode,
		Total:         m.Total,
		Outstanding:   m.Outstanding,
		Description:   m.Description,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceLine converts a domain InvoiceLine to a model InvoiceLine
func ToModelInvoiceLine(d domain.InvoiceLine) models.InvoiceLine {
	return models.InvoiceLine{
		LineID:      d.LineID,
		InvoiceID:   d.InvoiceID,
		TenantID:    d.TenantID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		LineTotal:   d.LineTotal,
		AccountID:   d.AccountID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoiceLine converts a model InvoiceLine to a domain InvoiceLine
func ToDomainInvoiceLine(m models.InvoiceLine) domain.InvoiceLine {
	return domain.InvoiceLine{
		LineID:      m.LineID,
		InvoiceID:   m.InvoiceID,
		TenantID:    m.TenantID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
		AccountID:   m.AccountID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceLineSlice converts model InvoiceLines to domain InvoiceLines
func ToDomainInvoiceLineSlice(ms []models.InvoiceLine) []domain.InvoiceLine {
	ds := make([]domain.InvoiceLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoiceLine(m)
	}
	return ds
}

// ToModelBill converts a domain Bill to a model Bill. Lines are persisted
// separately.
func ToModelBill(d domain.Bill) models.Bill {
	return models.Bill{
		BillID:       d.BillID,
		TenantID:     d.TenantID,
		VendorID:     d.VendorID,
		BillNumber:   d.BillNumber,
		BillDate:     d.BillDate,
		DueDate:      d.DueDate,
		Status:       models.BillStatus(d.Status),
		CurrencyCode: d.CurrencyCode,
		Total:        d.Total,
		Outstanding:  d.Outstanding,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBill converts a model Bill to a domain Bill
func ToDomainBill(m models.Bill) domain.Bill {
	return domain.Bill{
		BillID:       m.BillID,
		TenantID:     m.TenantID,
		VendorID:     m.VendorID,
		BillNumber:   m.BillNumber,
		BillDate:     m.BillDate,
		DueDate:      m.DueDate,
		Status:       domain.BillStatus(m.Status),
		CurrencyCode: m.CurrencyCode,
		Total:        m.Total,
		Outstanding:  m.Outstanding,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBillLine converts a domain BillLine to a model BillLine
func ToModelBillLine(d domain.BillLine) models.BillLine {
	return models.BillLine{
		LineID:      d.LineID,
		BillID:      d.BillID,
		TenantID:    d.TenantID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		LineTotal:   d.LineTotal,
		AccountID:   d.AccountID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBillLine converts a model BillLine to a domain BillLine
func ToDomainBillLine(m models.BillLine) domain.BillLine {
	return domain.BillLine{
		LineID:      m.LineID,
		BillID:      m.BillID,
		TenantID:    m.TenantID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
		AccountID:   m.AccountID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBillLineSlice converts model BillLines to domain BillLines
func ToDomainBillLineSlice(ms []models.BillLine) []domain.BillLine {
	ds := make([]domain.BillLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBillLine(m)
	}
	return ds
}
