package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
)

type PgxAuditRepository struct {
	pool *pgxpool.Pool
}

// newPgxAuditRepository creates a new repository for audit events.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{pool: pool}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// SaveEvent appends one audit event. The changes map is stored as JSONB.
func (r *PgxAuditRepository) SaveEvent(ctx context.Context, event domain.AuditEvent) error {
	var changes []byte
	if len(event.Changes) > 0 {
		var err error
		changes, err = json.Marshal(event.Changes)
		if err != nil {
			return fmt.Errorf("failed to marshal audit changes: %w", err)
		}
	}

	query := `
		INSERT INTO audit_events (event_id, tenant_id, actor, action, object_type, object_id, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		event.EventID,
		event.TenantID,
		event.Actor,
		event.Action,
		event.ObjectType,
		event.ObjectID,
		changes,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit event %s: %w", event.EventID, err)
	}
	return nil
}
