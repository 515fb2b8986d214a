package services

import (
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Tenant = NewTenantService(repos.TenantRepo)
	container.Account = NewAccountService(repos.AccountRepo, repos.JournalRepo, repos.AuditRepo)
	container.Period = NewPeriodService(repos.PeriodRepo, repos.AuditRepo)
	container.Party = NewPartyService(repos.PartyRepo, repos.AccountRepo, repos.AuditRepo)
	container.Banking = NewBankingService(repos.BankingRepo, repos.AccountRepo, repos.AuditRepo)

	// The posting service is the only path to the posted state; document
	// workflows and the payment engine all post through it.
	container.Posting = NewPostingService(
		repos.JournalRepo,
		repos.AccountRepo,
		repos.PeriodRepo,
		repos.TenantRepo,
		repos.SnapshotRepo,
		repos.AuditRepo,
	)

	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.JournalRepo,
		repos.AccountRepo,
		repos.PartyRepo,
		repos.PeriodRepo,
		repos.TenantRepo,
		repos.BankingRepo,
		container.Posting,
		repos.AuditRepo,
	)
	container.Bill = NewBillService(
		repos.BillRepo,
		repos.JournalRepo,
		repos.AccountRepo,
		repos.PartyRepo,
		repos.PeriodRepo,
		repos.TenantRepo,
		repos.BankingRepo,
		container.Posting,
		repos.AuditRepo,
	)
	container.Payment = NewPaymentService(
		repos.BankingRepo,
		repos.InvoiceRepo,
		repos.BillRepo,
		repos.JournalRepo,
		repos.AccountRepo,
		repos.PartyRepo,
		repos.PeriodRepo,
		container.Posting,
		repos.AuditRepo,
	)
	container.Asset = NewAssetService(
		repos.AssetRepo,
		repos.JournalRepo,
		repos.AccountRepo,
		repos.PartyRepo,
		repos.PeriodRepo,
		container.Posting,
		repos.AuditRepo,
	)

	return container
}
