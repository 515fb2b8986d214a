package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TenantRepo   TenantRepositoryFacade
	AccountRepo  AccountRepositoryFacade
	PeriodRepo   PeriodRepositoryFacade
	JournalRepo  JournalRepositoryWithTx
	SnapshotRepo SnapshotRepositoryFacade
	InvoiceRepo  InvoiceRepositoryFacade
	BillRepo     BillRepositoryFacade
	BankingRepo  BankingRepositoryWithTx
	AssetRepo    AssetRepositoryFacade
	PartyRepo    PartyRepositoryFacade
	AuditRepo    AuditRepositoryFacade
}
