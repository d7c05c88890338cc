package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/models"
	"github.com/dookan/catalog-backend/repositories"
	"github.com/dookan/catalog-backend/services"
)

// ProductRepository implements repositories.ProductRepository over MongoDB
type ProductRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *DB, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection(models.Product{}.CollectionName()),
		logger:     logger,
	}
}

// notDeleted is the visibility filter shared by every lookup
func notDeleted(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "is_deleted": false}
}

// Create inserts a new product and returns it with the generated id
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	res, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeRepository, "failed to insert product", err)
	}
	product.ID = res.InsertedID.(primitive.ObjectID)

	r.logger.Debug("product inserted",
		zap.String("id", product.ID.Hex()),
		zap.String("sku", product.SKU))
	return product, nil
}

// Get returns a product by id; absent and soft-deleted both map to not found
func (r *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrProductNotFound
	}

	var product models.Product
	err = r.collection.FindOne(ctx, notDeleted(oid)).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.ErrProductNotFound
		}
		return nil, services.NewDomainError(services.ErrorTypeRepository, "failed to fetch product", err)
	}
	return &product, nil
}

// Update applies the non-nil fields and returns the updated product
func (r *ProductRepository) Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrProductNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = models.NewPrice(*update.Price)
		set["price_text"] = update.Price.String()
	}
	if update.SKU != nil {
		set["sku"] = *update.SKU
	}
	if update.ImageURL != nil {
		set["image_url"] = *update.ImageURL
		set["thumbnail_url"] = *update.ImageURL
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}

	return r.findOneAndSet(ctx, notDeleted(oid), set)
}

// SetShopifyID patches the recorded external id after a successful mirror write
func (r *ProductRepository) SetShopifyID(ctx context.Context, id, shopifyID string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrProductNotFound
	}

	now := time.Now().UTC()
	return r.findOneAndSet(ctx, bson.M{"_id": oid}, bson.M{
		"shopify_id":  shopifyID,
		"sync_status": models.SyncStatusSynced,
		"last_sync":   now,
		"updated_at":  now,
	})
}

// SetSyncStatus records the mirroring state without touching other fields
func (r *ProductRepository) SetSyncStatus(ctx context.Context, id string, status models.SyncStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return services.ErrProductNotFound
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"sync_status": status},
	})
	if err != nil {
		return services.NewDomainError(services.ErrorTypeRepository, "failed to set sync status", err)
	}
	if res.MatchedCount == 0 {
		return services.ErrProductNotFound
	}
	return nil
}

// Replace writes back a full pre-update snapshot (update compensation)
func (r *ProductRepository) Replace(ctx context.Context, id string, snapshot *models.Product) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return services.ErrProductNotFound
	}

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, snapshot)
	if err != nil {
		return services.NewDomainError(services.ErrorTypeRepository, "failed to restore product snapshot", err)
	}
	if res.MatchedCount == 0 {
		return services.ErrProductNotFound
	}
	return nil
}

// SoftDelete marks the product deleted; the document stays in place
func (r *ProductRepository) SoftDelete(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrProductNotFound
	}

	return r.findOneAndSet(ctx, notDeleted(oid), bson.M{
		"is_deleted": true,
		"updated_at": time.Now().UTC(),
	})
}

// Restore clears the soft-delete flag (delete compensation)
func (r *ProductRepository) Restore(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return services.ErrProductNotFound
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"is_deleted": false, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return services.NewDomainError(services.ErrorTypeRepository, "failed to restore product", err)
	}
	if res.MatchedCount == 0 {
		return services.ErrProductNotFound
	}
	return nil
}

// HardDelete physically removes the document. Used only to compensate a
// failed mirror create; user-facing deletion is always soft.
func (r *ProductRepository) HardDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return services.ErrProductNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return services.NewDomainError(services.ErrorTypeRepository, "failed to delete product", err)
	}
	if res.DeletedCount == 0 {
		return services.ErrProductNotFound
	}
	return nil
}

// List returns one page of non-deleted products plus the total count
func (r *ProductRepository) List(ctx context.Context, opts repositories.ListOptions) (*models.ProductPage, error) {
	filter := ListFilter(opts.Search)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeRepository, "failed to count products", err)
	}

	findOpts := options.Find().
		SetSort(SortSpec(opts.SortBy, opts.Order)).
		SetSkip(int64(opts.Page-1) * int64(opts.PerPage)).
		SetLimit(int64(opts.PerPage))

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeRepository, "failed to list products", err)
	}
	defer cursor.Close(ctx)

	products := make([]*models.Product, 0, opts.PerPage)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeRepository, "failed to decode products", err)
	}

	return &models.ProductPage{
		Products:   products,
		Total:      total,
		Page:       opts.Page,
		PerPage:    opts.PerPage,
		TotalPages: (total + int64(opts.PerPage) - 1) / int64(opts.PerPage),
	}, nil
}

// ListFilter builds the listing filter: soft-deleted documents are always
// excluded; a non-empty search term becomes a case-insensitive substring
// match across title, sku, price text, and currency.
func ListFilter(search string) bson.M {
	filter := bson.M{"is_deleted": false}
	if search == "" {
		return filter
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	filter["$or"] = []bson.M{
		{"title": re},
		{"sku": re},
		{"price_text": re},
		{"currency": re},
	}
	return filter
}

// SortSpec maps sort parameters to a Mongo sort document.
// Defaults: created_at descending.
func SortSpec(sortBy string, order repositories.SortOrder) bson.D {
	if sortBy == "" {
		sortBy = "created_at"
	}
	dir := -1
	if order == repositories.SortAsc {
		dir = 1
	}
	return bson.D{{Key: sortBy, Value: dir}}
}

// findOneAndSet applies a $set and returns the post-update document
func (r *ProductRepository) findOneAndSet(ctx context.Context, filter, set bson.M) (*models.Product, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.ErrProductNotFound
		}
		return nil, services.NewDomainError(services.ErrorTypeRepository, "failed to update product", err)
	}
	return &product, nil
}

// EnsureIndexes creates the indexes the listing paths rely on
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_deleted", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "sku", Value: 1}}},
	})
	return err
}
