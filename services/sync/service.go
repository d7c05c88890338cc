// Package sync implements the product synchronization coordinator: every
// product mutation is a dual write against the local MongoDB repository and
// the remote commerce gateway, ordered so the repository is always the first
// writer and the compensation target. Consistency is best-effort sequential
// compensation, not a transaction.
package sync

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/models"
	"github.com/dookan/catalog-backend/repositories"
	"github.com/dookan/catalog-backend/services"
	"github.com/dookan/catalog-backend/shopify"
	"github.com/dookan/catalog-backend/validation"
)

// Gateway is the remote commerce platform's mutation surface. Structural
// failures (network/auth) and semantic failures (remote validation) surface
// as a single failure signal; the coordinator does not distinguish them.
type Gateway interface {
	CreateProduct(ctx context.Context, fields shopify.ProductFields) (string, error)
	UpdateProduct(ctx context.Context, externalID string, fields shopify.ProductFields) error
	DeleteProduct(ctx context.Context, externalID string) error
}

// Recorder appends audit events. Implementations must never block the
// caller; audit failures are logged, not surfaced.
type Recorder interface {
	Record(event *models.AuditEvent)
}

// Service coordinates product mutations across the repository and gateway
type Service struct {
	repo      repositories.ProductRepository
	gateway   Gateway
	recorder  Recorder
	validator *validation.Validator
	logger    *zap.Logger
}

// NewService creates a new sync coordinator
func NewService(
	repo repositories.ProductRepository,
	gateway Gateway,
	recorder Recorder,
	validator *validation.Validator,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		gateway:   gateway,
		recorder:  recorder,
		validator: validator,
		logger:    logger,
	}
}

// UpdateResult is the outcome of an update operation. NoOp is true when the
// request supplied no fields; the stored record was not touched.
type UpdateResult struct {
	Product *models.Product
	NoOp    bool
}

// Create validates the input, writes the local record, mirrors it to the
// gateway, and patches the local record with the returned external id.
// A gateway failure deletes the just-created local record so no orphan
// unmirrored product survives the call.
func (s *Service) Create(ctx context.Context, actor services.Identity, in validation.CreateInput) (*models.Product, error) {
	if errs := s.validator.ValidateCreate(in); len(errs) > 0 {
		return nil, services.NewValidationError(errs)
	}

	product := models.NewProduct(*in.Title, *in.Description, *in.Price, *in.SKU)
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) != "" {
		product.WithImage(*in.ImageURL)
	}

	// Step 1: local write. On failure nothing remote happened; the caller
	// may retry freely.
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	localID := created.ID.Hex()

	// Step 2: remote mirror write.
	externalID, err := s.gateway.CreateProduct(ctx, shopify.ProductFields{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		SKU:         in.SKU,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		// Compensate: remove the local record that was never mirrored.
		if delErr := s.repo.HardDelete(ctx, localID); delErr != nil {
			s.logger.Error("create compensation failed, orphan local record remains",
				zap.String("product_id", localID),
				zap.Error(delErr))
		}
		return nil, services.NewDomainError(services.ErrorTypeSyncFailed,
			"failed to create product in shopify", err)
	}

	// Step 3: record the external id locally. If this patch fails the
	// remote mirror exists without a recorded id; that window is
	// acknowledged and left to manual remediation.
	patched, err := s.repo.SetShopifyID(ctx, localID, externalID)
	if err != nil {
		s.logger.Warn("mirror created but local id patch failed; manual reconciliation required",
			zap.String("product_id", localID),
			zap.String("shopify_id", externalID),
			zap.Error(err))
		if stErr := s.repo.SetSyncStatus(ctx, localID, models.SyncStatusFailed); stErr != nil {
			s.logger.Error("failed to mark product sync status",
				zap.String("product_id", localID),
				zap.Error(stErr))
		}
		return nil, services.NewDomainError(services.ErrorTypeSyncFailed,
			"product mirrored but external id could not be recorded", err).
			WithDetail("shopify_id", externalID)
	}

	s.recorder.Record(models.NewAuditEvent(
		actor.ActorID, actor.ActorName, localID, patched.Title, models.EventKindCreate))

	return patched, nil
}

// Update validates the supplied fields, applies them locally while retaining
// the pre-update snapshot, then mirrors them to the gateway when the product
// has a recorded external id. A gateway failure writes the snapshot back.
func (s *Service) Update(ctx context.Context, actor services.Identity, id string, update models.ProductUpdate) (*UpdateResult, error) {
	if errs := s.validator.ProductID(id); len(errs) > 0 {
		return nil, services.NewValidationError(errs)
	}
	if errs := s.validator.ValidateUpdate(update); len(errs) > 0 {
		return nil, services.NewValidationError(errs)
	}

	// Snapshot for compensation; also the NotFound check.
	snapshot, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// An empty field set is a no-op that must not touch updated_at.
	if update.IsEmpty() {
		return &UpdateResult{Product: snapshot, NoOp: true}, nil
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	// A product never mirrored is local-only; the update is complete.
	if snapshot.IsMirrored() {
		err = s.gateway.UpdateProduct(ctx, snapshot.ShopifyID, fieldsFromUpdate(update))
		if err != nil {
			if repErr := s.repo.Replace(ctx, id, snapshot); repErr != nil {
				s.logger.Error("update compensation failed, local and remote state diverged",
					zap.String("product_id", id),
					zap.Error(repErr))
			}
			return nil, services.NewDomainError(services.ErrorTypeSyncFailed,
				"failed to update product in shopify", err)
		}
	}

	s.recorder.Record(models.NewAuditEvent(
		actor.ActorID, actor.ActorName, id, updated.Title, models.EventKindUpdate))

	return &UpdateResult{Product: updated}, nil
}

// Delete soft-deletes the local record, then removes the remote mirror when
// one is recorded. A gateway failure clears the soft-delete flag again.
// The record is never purged; it stays soft-deleted indefinitely.
func (s *Service) Delete(ctx context.Context, actor services.Identity, id string) error {
	if errs := s.validator.ProductID(id); len(errs) > 0 {
		return services.NewValidationError(errs)
	}

	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	if product.IsMirrored() {
		if err := s.gateway.DeleteProduct(ctx, product.ShopifyID); err != nil {
			if resErr := s.repo.Restore(ctx, id); resErr != nil {
				s.logger.Error("delete compensation failed, product remains soft-deleted locally",
					zap.String("product_id", id),
					zap.Error(resErr))
			}
			return services.NewDomainError(services.ErrorTypeSyncFailed,
				"failed to delete product in shopify", err)
		}
	}

	s.recorder.Record(models.NewAuditEvent(
		actor.ActorID, actor.ActorName, id, product.Title, models.EventKindDelete))

	return nil
}

// Get returns a single visible product
func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	if errs := s.validator.ProductID(id); len(errs) > 0 {
		return nil, services.NewValidationError(errs)
	}
	return s.repo.Get(ctx, id)
}

// List returns one page of visible products
func (s *Service) List(ctx context.Context, params validation.ListParams, search string) (*models.ProductPage, error) {
	if errs := s.validator.ValidateListParams(params); len(errs) > 0 {
		return nil, services.NewValidationError(errs)
	}
	return s.repo.List(ctx, repositories.ListOptions{
		SortBy:  params.SortBy,
		Order:   repositories.SortOrder(params.Order),
		Page:    params.Page,
		PerPage: params.PerPage,
		Search:  search,
	})
}

// fieldsFromUpdate maps the mirrored subset of an update to gateway fields.
// The merchandising status is local-only and never mirrored.
func fieldsFromUpdate(u models.ProductUpdate) shopify.ProductFields {
	return shopify.ProductFields{
		Title:       u.Title,
		Description: u.Description,
		Price:       u.Price,
		SKU:         u.SKU,
		ImageURL:    u.ImageURL,
	}
}
