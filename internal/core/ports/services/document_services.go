package services

import (
	"context"

	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/ledgerworks/books_backend/internal/dto"
)

// InvoiceSvcFacade manages customer invoices and their posting workflow.
type InvoiceSvcFacade interface {
	// CreateInvoice persists a draft invoice with its lines.
	CreateInvoice(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest, actor string) (*domain.Invoice, error)

	// GetInvoice retrieves an invoice with its lines.
	GetInvoice(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices.
	ListInvoices(ctx context.Context, tenantID string, params dto.ListParams) (*dto.ListInvoicesResponse, error)

	// OpenInvoice posts the revenue-recognition entry (debit AR control,
	// credit revenue per line account) and moves the invoice draft -> open.
	OpenInvoice(ctx context.Context, tenantID string, invoiceID string, actor string) (*domain.Invoice, error)

	// PayInvoice marks a fully settled invoice paid. Requires outstanding == 0.
	PayInvoice(ctx context.Context, tenantID string, invoiceID string, actor string) (*domain.Invoice, error)

	// DeleteInvoice removes a draft invoice. Refused once payments are applied.
	DeleteInvoice(ctx context.Context, tenantID string, invoiceID string, actor string) error
}

// BillSvcFacade manages vendor bills and their posting workflow.
type BillSvcFacade interface {
	// CreateBill persists a draft bill with its lines.
	CreateBill(ctx context.Context, tenantID string, req dto.CreateBillRequest, actor string) (*domain.Bill, error)

	// GetBill retrieves a bill with its lines.
	GetBill(ctx context.Context, tenantID string, billID string) (*domain.Bill, error)

	// ListBills retrieves a paginated list of bills.
	ListBills(ctx context.Context, tenantID string, params dto.ListParams) (*dto.ListBillsResponse, error)

	// PostBill posts the expense entry (debit expense per line account,
	// credit AP control) and moves the bill draft -> posted.
	PostBill(ctx context.Context, tenantID string, billID string, actor string) (*domain.Bill, error)

	// PayBill marks a fully settled bill paid. Requires outstanding == 0.
	PayBill(ctx context.Context, tenantID string, billID string, actor string) (*domain.Bill, error)

	// DeleteBill removes a draft bill. Refused once payments are applied.
	DeleteBill(ctx context.Context, tenantID string, billID string, actor string) error
}

// AssetSvcFacade manages fixed assets, capitalization, and depreciation runs.
type AssetSvcFacade interface {
	// CreateAsset persists a new fixed asset.
	CreateAsset(ctx context.Context, tenantID string, req dto.CreateAssetRequest, actor string) (*domain.FixedAsset, error)

	// GetAsset retrieves a fixed asset.
	GetAsset(ctx context.Context, tenantID string, assetID string) (*domain.FixedAsset, error)

	// Capitalize posts the purchase entry (debit asset account, credit vendor
	// AP or bank ledger account) for the purchase cost.
	Capitalize(ctx context.Context, tenantID string, assetID string, actor string) (*domain.JournalEntry, error)

	// Depreciate records one period's straight-line charge: debit
	// depreciation expense, credit accumulated depreciation, capped at the
	// asset's remaining book value.
	Depreciate(ctx context.Context, tenantID string, assetID string, periodID string, actor string) (*domain.JournalEntry, error)
}
