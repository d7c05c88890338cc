package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/models"
	"github.com/dookan/catalog-backend/repositories"
)

// AuditRepository implements the repositories.AuditRepository interface.
// The table is append-only: rows are never updated and only retention
// pruning removes them.
type AuditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

const eventColumns = "id, actor_id, actor_name, product_id, product_title, event_kind, timestamp"

// Insert appends a new audit event
func (r *AuditRepository) Insert(ctx context.Context, event *models.AuditEvent) error {
	query := `
		INSERT INTO audit_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.ActorID,
		event.ActorName,
		event.ProductID,
		event.ProductTitle,
		event.Kind,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	r.logger.Debug("audit event inserted",
		zap.String("id", event.ID.String()),
		zap.String("kind", string(event.Kind)))
	return nil
}

// List returns filtered events newest-first plus the total count.
// The WHERE clause leads with actor_id or event_kind so the matching
// composite index serves the query.
func (r *AuditRepository) List(ctx context.Context, filter repositories.EventFilter) (*models.EventPage, error) {
	where, args := buildEventWhere(filter)

	var total int64
	countQuery := "SELECT COUNT(*) FROM audit_events" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count audit events: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT "+eventColumns+" FROM audit_events%s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.AuditEvent, 0, filter.PerPage)
	for rows.Next() {
		event := &models.AuditEvent{}
		if err := rows.Scan(
			&event.ID,
			&event.ActorID,
			&event.ActorName,
			&event.ProductID,
			&event.ProductTitle,
			&event.Kind,
			&event.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit events: %w", err)
	}

	perPage := int64(filter.PerPage)
	return &models.EventPage{
		Events:     events,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: (total + perPage - 1) / perPage,
	}, nil
}

// CountByKind returns per-kind event counts for one actor
func (r *AuditRepository) CountByKind(ctx context.Context, actorID string) (map[models.EventKind]int64, error) {
	query := `
		SELECT event_kind, COUNT(*)
		FROM audit_events
		WHERE actor_id = $1
		GROUP BY event_kind
	`

	rows, err := r.db.QueryContext(ctx, query, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by kind: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.EventKind]int64)
	for rows.Next() {
		var kind models.EventKind
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts[kind] = count
	}
	return counts, rows.Err()
}

// ActivitySince returns daily per-kind counts for one actor since a cutoff
func (r *AuditRepository) ActivitySince(ctx context.Context, actorID string, since time.Time) ([]models.ActivityBucket, error) {
	query := `
		SELECT TO_CHAR(DATE(timestamp), 'YYYY-MM-DD'), event_kind, COUNT(*)
		FROM audit_events
		WHERE actor_id = $1 AND timestamp >= $2
		GROUP BY DATE(timestamp), event_kind
		ORDER BY DATE(timestamp)
	`

	rows, err := r.db.QueryContext(ctx, query, actorID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	var buckets []models.ActivityBucket
	for rows.Next() {
		var b models.ActivityBucket
		if err := rows.Scan(&b.Date, &b.Kind, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan activity bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// PruneOlderThan deletes events older than the cutoff, returning the count removed
func (r *AuditRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM audit_events WHERE timestamp < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit events: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read pruned row count: %w", err)
	}

	r.logger.Info("pruned audit events",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff))
	return deleted, nil
}

// buildEventWhere builds the WHERE clause and arguments for a filtered listing
func buildEventWhere(filter repositories.EventFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.ActorID != "" {
		add("actor_id = $%d", filter.ActorID)
	}
	if filter.Kind != "" {
		add("event_kind = $%d", filter.Kind)
	}
	if filter.From != nil {
		add("timestamp >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("timestamp <= $%d", *filter.To)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
