package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BankingReader defines read operations for bank accounts and transactions.
type BankingReader interface {
	// FindBankAccountByID retrieves a bank account by its unique identifier.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// FindTransactionByID retrieves a bank transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error)

	// ListTransactions retrieves a paginated list of bank transactions for a tenant.
	ListTransactions(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.BankTransaction, *string, error)

	// FindApplicationsByTransaction retrieves all applications of a bank transaction.
	FindApplicationsByTransaction(ctx context.Context, transactionID string) ([]domain.PaymentApplication, error)

	// HasApplicationsForDocument reports whether any payment has been applied
	// to the given invoice or bill. Documents with applied payments are never
	// hard-deleted.
	HasApplicationsForDocument(ctx context.Context, doc domain.DocumentRef) (bool, error)
}

// BankingWriter defines write operations for bank accounts and transactions.
type BankingWriter interface {
	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error

	// SaveTransaction persists a new bank transaction.
	SaveTransaction(ctx context.Context, txn domain.BankTransaction) error
}

// BankingTransactionSupport defines the tx-scoped operations the payment
// application engine is built on. Lock order is always bank transaction
// first, then the target document.
type BankingTransactionSupport interface {
	// FindTransactionForUpdate selects a bank transaction and locks its row.
	FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.BankTransaction, error)

	// SumAppliedAmount aggregates the transaction's existing applications
	// within the transaction, so capacity checks are never racy.
	SumAppliedAmount(ctx context.Context, tx pgx.Tx, transactionID string) (decimal.Decimal, error)

	// SaveApplication persists a new application link within the transaction.
	// The (transaction, document) pair is unique; a duplicate fails with ErrDuplicate.
	SaveApplication(ctx context.Context, tx pgx.Tx, app domain.PaymentApplication) error

	// UpdateTransactionStatus writes the derived status within the transaction.
	UpdateTransactionStatus(ctx context.Context, tx pgx.Tx, transactionID string, status domain.TransactionStatus, actor string, now time.Time) error
}

// BankingRepositoryFacade combines all banking-related repository interfaces.
type BankingRepositoryFacade interface {
	BankingReader
	BankingWriter
	BankingTransactionSupport
}

// BankingRepositoryWithTx extends BankingRepositoryFacade with transaction capabilities.
type BankingRepositoryWithTx interface {
	BankingRepositoryFacade
	TransactionManager
}
