package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/models"
	"github.com/dookan/catalog-backend/repositories"
	"github.com/dookan/catalog-backend/services"
)

// Service is the read and retention surface over the audit log
type Service struct {
	auditRepo repositories.AuditRepository
	logger    *zap.Logger
}

// NewService creates a new audit query service
func NewService(auditRepo repositories.AuditRepository, logger *zap.Logger) *Service {
	return &Service{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// ListFilter narrows an event listing request
type ListFilter struct {
	ActorID string
	Kind    string
	From    *time.Time
	To      *time.Time
	Page    int
	PerPage int
}

// List returns one page of audit events, newest first
func (s *Service) List(ctx context.Context, filter ListFilter) (*models.EventPage, error) {
	var errs []string
	if filter.Kind != "" && !models.ValidEventKind(filter.Kind) {
		errs = append(errs, "Event type must be one of: create, update, delete")
	}
	if filter.Page < 1 {
		errs = append(errs, "Page number must be positive")
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		errs = append(errs, "Items per page must be between 1 and 100")
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		errs = append(errs, "End of time range must not precede its start")
	}
	if len(errs) > 0 {
		return nil, services.NewValidationError(errs)
	}

	return s.auditRepo.List(ctx, repositories.EventFilter{
		ActorID: filter.ActorID,
		Kind:    models.EventKind(filter.Kind),
		From:    filter.From,
		To:      filter.To,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
}

// Prune deletes events older than the given number of days and returns the
// number removed.
func (s *Service) Prune(ctx context.Context, days int) (int64, error) {
	if days < 1 {
		return 0, services.NewValidationError([]string{"Retention period must be a positive number of days"})
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	removed, err := s.auditRepo.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	s.logger.Info("pruned audit events",
		zap.Int("retention_days", days),
		zap.Int64("removed", removed))

	return removed, nil
}
