package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	"github.com/ledgerworks/books_backend/internal/models"
	"github.com/ledgerworks/books_backend/internal/utils/mapping"
	"github.com/ledgerworks/books_backend/internal/utils/pagination"
)

const bankAccountColumns = `bank_account_id, tenant_id, name, number_masked, currency_code, ledger_account_id, created_at, created_by, last_updated_at, last_updated_by`

const transactionColumns = `transaction_id, tenant_id, bank_account_id, payment_date, amount, currency_code, method, status, reference, description, created_at, created_by, last_updated_at, last_updated_by`

const applicationColumns = `application_id, tenant_id, transaction_id, document_type, document_id, applied_amount, entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxBankingRepository struct {
	BaseRepository
}

// newPgxBankingRepository creates a new repository for bank accounts,
// transactions, and payment applications.
func newPgxBankingRepository(pool *pgxpool.Pool) portsrepo.BankingRepositoryWithTx {
	return &PgxBankingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankingRepositoryWithTx = (*PgxBankingRepository)(nil)

func scanTransaction(row pgx.Row) (*domain.BankTransaction, error) {
	var model models.BankTransaction
	err := row.Scan(
		&model.TransactionID,
		&model.TenantID,
		&model.BankAccountID,
		&model.PaymentDate,
		&model.Amount,
		&model.CurrencyCode,
		&model.Method,
		&model.Status,
		&model.Reference,
		&model.Description,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	txn := mapping.ToDomainBankTransaction(model)
	return &txn, nil
}

// SaveBankAccount inserts a new bank account.
func (r *PgxBankingRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	model := mapping.ToModelBankAccount(account)

	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.BankAccountID,
		model.TenantID,
		model.Name,
		model.NumberMasked,
		model.CurrencyCode,
		model.LedgerAccountID,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bank account %s already exists", apperrors.ErrDuplicate, model.Name)
		}
		return fmt.Errorf("failed to save bank account %s: %w", model.BankAccountID, err)
	}
	return nil
}

// FindBankAccountByID retrieves a bank account by its ID.
func (r *PgxBankingRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`

	var model models.BankAccount
	err := r.Pool.QueryRow(ctx, query, bankAccountID).Scan(
		&model.BankAccountID,
		&model.TenantID,
		&model.Name,
		&model.NumberMasked,
		&model.CurrencyCode,
		&model.LedgerAccountID,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}

	account := mapping.ToDomainBankAccount(model)
	return &account, nil
}

// SaveTransaction inserts a new bank transaction.
func (r *PgxBankingRepository) SaveTransaction(ctx context.Context, txn domain.BankTransaction) error {
	model := mapping.ToModelBankTransaction(txn)

	query := `
		INSERT INTO bank_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.TransactionID,
		model.TenantID,
		model.BankAccountID,
		model.PaymentDate,
		model.Amount,
		model.CurrencyCode,
		model.Method,
		model.Status,
		model.Reference,
		model.Description,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction reference %s already exists", apperrors.ErrDuplicate, model.Reference)
		}
		return fmt.Errorf("failed to save bank transaction %s: %w", model.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a bank transaction by its ID.
func (r *PgxBankingRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bank_transactions WHERE transaction_id = $1;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves a paginated list of bank transactions, newest first.
func (r *PgxBankingRepository) ListTransactions(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.BankTransaction, *string, error) {
	args := []any{tenantID, limit + 1}
	query := `SELECT ` + transactionColumns + ` FROM bank_transactions WHERE tenant_id = $1`

	if nextToken != nil && *nextToken != "" {
		tokenTime, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND created_at < $3`
		args = append(args, tokenTime)
	}
	query += ` ORDER BY created_at DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list bank transactions for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	txns := []domain.BankTransaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan bank transaction row: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating bank transaction rows: %w", err)
	}

	var newToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		token := pagination.EncodeDateBasedToken(txns[len(txns)-1].CreatedAt)
		newToken = &token
	}
	return txns, newToken, nil
}

// FindApplicationsByTransaction retrieves all applications of a transaction.
func (r *PgxBankingRepository) FindApplicationsByTransaction(ctx context.Context, transactionID string) ([]domain.PaymentApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM payment_applications WHERE transaction_id = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications of transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	apps := []domain.PaymentApplication{}
	for rows.Next() {
		var model models.PaymentApplication
		err := rows.Scan(
			&model.ApplicationID,
			&model.TenantID,
			&model.TransactionID,
			&model.DocumentType,
			&model.DocumentID,
			&model.AppliedAmount,
			&model.EntryID,
			&model.CreatedAt,
			&model.CreatedBy,
			&model.LastUpdatedAt,
			&model.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment application row: %w", err)
		}
		apps = append(apps, mapping.ToDomainPaymentApplication(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment application rows: %w", err)
	}
	return apps, nil
}

// HasApplicationsForDocument reports whether any payment has been applied to
// the given invoice or bill.
func (r *PgxBankingRepository) HasApplicationsForDocument(ctx context.Context, doc domain.DocumentRef) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM payment_applications WHERE document_type = $1 AND document_id = $2);`

	var exists bool
	if err := r.Pool.QueryRow(ctx, query, string(doc.Kind), doc.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check applications for %s %s: %w", doc.Kind, doc.ID, err)
	}
	return exists, nil
}

// FindTransactionForUpdate selects a bank transaction and locks its row.
func (r *PgxBankingRepository) FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.BankTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bank_transactions WHERE transaction_id = $1 FOR UPDATE;`

	txn, err := scanTransaction(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock bank transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// SumAppliedAmount aggregates the transaction's applications under the
// transaction's locks.
func (r *PgxBankingRepository) SumAppliedAmount(ctx context.Context, tx pgx.Tx, transactionID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(applied_amount), 0) FROM payment_applications WHERE transaction_id = $1;`

	var sum decimal.Decimal
	if err := tx.QueryRow(ctx, query, transactionID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum applications of transaction %s: %w", transactionID, err)
	}
	return sum, nil
}

// SaveApplication inserts a new application link. The unique constraint on
// (transaction_id, document_type, document_id) rejects duplicates.
func (r *PgxBankingRepository) SaveApplication(ctx context.Context, tx pgx.Tx, app domain.PaymentApplication) error {
	model := mapping.ToModelPaymentApplication(app)

	query := `
		INSERT INTO payment_applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		model.ApplicationID,
		model.TenantID,
		model.TransactionID,
		model.DocumentType,
		model.DocumentID,
		model.AppliedAmount,
		model.EntryID,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s is already applied to %s %s", apperrors.ErrDuplicate, model.TransactionID, model.DocumentType, model.DocumentID)
		}
		return fmt.Errorf("failed to save payment application %s: %w", model.ApplicationID, err)
	}
	return nil
}

// UpdateTransactionStatus writes the derived status within the transaction.
func (r *PgxBankingRepository) UpdateTransactionStatus(ctx context.Context, tx pgx.Tx, transactionID string, status domain.TransactionStatus, actor string, now time.Time) error {
	query := `
		UPDATE bank_transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, transactionID, string(status), now, actor)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
