package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TenantRepo:   newPgxTenantRepository(dbPool),
		AccountRepo:  newPgxAccountRepository(dbPool),
		PeriodRepo:   newPgxPeriodRepository(dbPool),
		JournalRepo:  newPgxJournalRepository(dbPool),
		SnapshotRepo: newPgxSnapshotRepository(dbPool),
		InvoiceRepo:  newPgxInvoiceRepository(dbPool),
		BillRepo:     newPgxBillRepository(dbPool),
		BankingRepo:  newPgxBankingRepository(dbPool),
		AssetRepo:    newPgxAssetRepository(dbPool),
		PartyRepo:    newPgxPartyRepository(dbPool),
		AuditRepo:    newPgxAuditRepository(dbPool),
	}
}
