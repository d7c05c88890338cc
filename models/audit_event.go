package models

import (
	"time"

	"github.com/google/uuid"
)

// EventKind represents the type of product lifecycle action being audited
type EventKind string

const (
	EventKindCreate EventKind = "create"
	EventKindUpdate EventKind = "update"
	EventKindDelete EventKind = "delete"
)

// ValidEventKind reports whether s names a known event kind
func ValidEventKind(s string) bool {
	switch EventKind(s) {
	case EventKindCreate, EventKindUpdate, EventKindDelete:
		return true
	}
	return false
}

// AuditEvent is an append-only audit trail entry stored in PostgreSQL.
// Actor name and product title are denormalized snapshots taken at write time;
// they do not follow later renames.
type AuditEvent struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ActorID      string    `json:"actor_id" db:"actor_id"`
	ActorName    string    `json:"actor_name" db:"actor_name"`
	ProductID    string    `json:"product_id" db:"product_id"`
	ProductTitle string    `json:"product_title" db:"product_title"`
	Kind         EventKind `json:"event_type" db:"event_kind"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditEvent model
func (AuditEvent) TableName() string {
	return "audit_events"
}

// NewAuditEvent creates a new AuditEvent stamped with the current time
func NewAuditEvent(actorID, actorName, productID, productTitle string, kind EventKind) *AuditEvent {
	return &AuditEvent{
		ID:           uuid.New(),
		ActorID:      actorID,
		ActorName:    actorName,
		ProductID:    productID,
		ProductTitle: productTitle,
		Kind:         kind,
		Timestamp:    time.Now().UTC(),
	}
}

// ActivityBucket is a per-day, per-kind event count used by analytics
type ActivityBucket struct {
	Date  string    `json:"date"` // YYYY-MM-DD
	Kind  EventKind `json:"event_type"`
	Count int64     `json:"count"`
}

// EventPage is one page of an audit event listing
type EventPage struct {
	Events     []*AuditEvent `json:"events"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int64         `json:"total_pages"`
}
