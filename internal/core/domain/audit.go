package domain

import "time"

// AuditEvent is the fact the engine emits for every successful mutating
// operation. The engine only produces these; how they are stored is the audit
// collaborator's concern.
type AuditEvent struct {
	EventID    string            `json:"eventID"` // Primary Key (UUID)
	TenantID   string            `json:"tenantID"`
	Actor      string            `json:"actor"`
	Action     string            `json:"action"`     // create, update, post, apply_payment, ...
	ObjectType string            `json:"objectType"` // e.g. "JournalEntry", "Invoice"
	ObjectID   string            `json:"objectID"`
	Changes    map[string]string `json:"changes"` // Before/after summary
	CreatedAt  time.Time         `json:"createdAt"`
}
