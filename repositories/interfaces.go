// Package repositories defines the persistence interfaces consumed by the
// services layer. MongoDB owns products and users; PostgreSQL owns the
// append-only audit log.
package repositories

import (
	"context"
	"time"

	"github.com/dookan/catalog-backend/models"
)

// SortOrder is a listing sort direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOptions controls product listing: sorting, pagination, and an optional
// case-insensitive substring search across title/sku/price-text/currency.
type ListOptions struct {
	SortBy  string
	Order   SortOrder
	Page    int
	PerPage int
	Search  string
}

// ProductRepository provides CRUD, soft delete, and paginated listing over
// product documents. Soft-deleted products are invisible to Get and List.
type ProductRepository interface {
	// Create inserts a new product and returns it with the generated id
	Create(ctx context.Context, product *models.Product) (*models.Product, error)

	// Get returns a product by id; not-found covers absent and soft-deleted
	Get(ctx context.Context, id string) (*models.Product, error)

	// Update applies the non-nil fields and returns the updated product
	Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error)

	// SetShopifyID patches the recorded external id after a mirror write
	SetShopifyID(ctx context.Context, id, shopifyID string) (*models.Product, error)

	// SetSyncStatus records the mirroring state without touching other fields
	SetSyncStatus(ctx context.Context, id string, status models.SyncStatus) error

	// Replace writes back a full pre-update snapshot (update compensation)
	Replace(ctx context.Context, id string, snapshot *models.Product) error

	// SoftDelete marks the product deleted; the document stays in place
	SoftDelete(ctx context.Context, id string) (*models.Product, error)

	// Restore clears the soft-delete flag (delete compensation)
	Restore(ctx context.Context, id string) error

	// HardDelete physically removes the document (create compensation only)
	HardDelete(ctx context.Context, id string) error

	// List returns one page of non-deleted products plus the total count
	List(ctx context.Context, opts ListOptions) (*models.ProductPage, error)
}

// UserRepository provides user persistence for the auth layer
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, id string, name, passwordHash *string) (*models.User, error)
}

// EventFilter narrows an audit event listing
type EventFilter struct {
	ActorID string
	Kind    models.EventKind
	From    *time.Time
	To      *time.Time
	Page    int
	PerPage int
}

// AuditRepository provides append-only audit event persistence.
// Events are never updated; deletion happens only through retention pruning.
type AuditRepository interface {
	// Insert appends a new audit event
	Insert(ctx context.Context, event *models.AuditEvent) error

	// List returns filtered events newest-first plus the total count
	List(ctx context.Context, filter EventFilter) (*models.EventPage, error)

	// CountByKind returns per-kind event counts for one actor
	CountByKind(ctx context.Context, actorID string) (map[models.EventKind]int64, error)

	// ActivitySince returns daily per-kind counts for one actor since a cutoff
	ActivitySince(ctx context.Context, actorID string, since time.Time) ([]models.ActivityBucket, error)

	// PruneOlderThan deletes events older than the cutoff, returning the count removed
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
