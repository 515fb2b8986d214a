package mapping

import (
	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/ledgerworks/books_backend/internal/models"
)

// ToModelFixedAsset converts a domain FixedAsset to a model FixedAsset
func ToModelFixedAsset(d domain.FixedAsset) models.FixedAsset {
	return models.FixedAsset{
		AssetID:                 d.AssetID,
		TenantID:                d.TenantID,
		AssetCode:               d.AssetCode,
		Description:             d.Description,
		PurchaseDate:            d.PurchaseDate,
		PurchaseCost:            d.PurchaseCost,
		AccountID:               d.AccountID,
		VendorID:                d.VendorID,
		Status:                  models.AssetStatus(d.Status),
		UsefulLifeYears:         d.UsefulLifeYears,
		DepreciationMethod:      string(d.DepreciationMethod),
		AccumulatedDepreciation: d.AccumulatedDepreciation,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFixedAsset converts a model FixedAsset to a domain FixedAsset
func ToDomainFixedAsset(m models.FixedAsset) domain.FixedAsset {
	return domain.FixedAsset{
		AssetID:                 m.AssetID,
		TenantID:                m.TenantID,
		AssetCode:               m.AssetCode,
		Description:             m.Description,
		PurchaseDate:            m.PurchaseDate,
		PurchaseCost:            m.PurchaseCost,
		AccountID:               m.AccountID,
		VendorID:                m.VendorID,
		Status:                  domain.AssetStatus(m.Status),
		UsefulLifeYears:         m.UsefulLifeYears,
		DepreciationMethod:      domain.DepreciationMethod(m.DepreciationMethod),
		AccumulatedDepreciation: m.AccumulatedDepreciation,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:         d.CustomerID,
		TenantID:           d.TenantID,
		Name:               d.Name,
		Email:              d.Email,
		DefaultARAccountID: d.DefaultARAccountID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:         m.CustomerID,
		TenantID:           m.TenantID,
		Name:               m.Name,
		Email:              m.Email,
		DefaultARAccountID: m.DefaultARAccountID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelVendor converts a domain Vendor to a model Vendor
func ToModelVendor(d domain.Vendor) models.Vendor {
	return models.Vendor{
		VendorID:           d.VendorID,
		TenantID:           d.TenantID,
		Name:               d.Name,
		Email:              d.Email,
		DefaultAPAccountID: d.DefaultAPAccountID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVendor converts a model Vendor to a domain Vendor
func ToDomainVendor(m models.Vendor) domain.Vendor {
	return domain.Vendor{
		VendorID:           m.VendorID,
		TenantID:           m.TenantID,
		Name:               m.Name,
		Email:              m.Email,
		DefaultAPAccountID: m.DefaultAPAccountID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBalanceSnapshot converts a domain BalanceSnapshot to its model
func ToModelBalanceSnapshot(d domain.BalanceSnapshot) models.BalanceSnapshot {
	return models.BalanceSnapshot{
		SnapshotID:    d.SnapshotID,
		TenantID:      d.TenantID,
		AccountID:     d.AccountID,
		SnapshotDate:  d.SnapshotDate,
		DebitBalance:  d.DebitBalance,
		CreditBalance: d.CreditBalance,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBalanceSnapshot converts a model BalanceSnapshot to its domain form
func ToDomainBalanceSnapshot(m models.BalanceSnapshot) domain.BalanceSnapshot {
	return domain.BalanceSnapshot{
		SnapshotID:    m.SnapshotID,
		TenantID:      m.TenantID,
		AccountID:     m.AccountID,
		SnapshotDate:  m.SnapshotDate,
		DebitBalance:  m.DebitBalance,
		CreditBalance: m.CreditBalance,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
