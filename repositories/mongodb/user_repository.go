package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/models"
	"github.com/dookan/catalog-backend/services"
)

// UserRepository implements repositories.UserRepository over MongoDB
type UserRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		collection: db.Collection(models.User{}.CollectionName()),
		logger:     logger,
	}
}

// Create inserts a new user; a duplicate email maps to a conflict error
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, services.ErrDuplicateEmail
		}
		return nil, services.NewDomainError(services.ErrorTypeRepository, "failed to insert user", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	r.logger.Debug("user inserted", zap.String("id", user.ID.Hex()))
	return user, nil
}

// GetByID returns a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail returns a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// UpdateLastLogin stamps the last successful authentication time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return services.ErrUserNotFound
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"last_login": at},
	})
	if err != nil {
		return services.NewDomainError(services.ErrorTypeRepository, "failed to update last login", err)
	}
	if res.MatchedCount == 0 {
		return services.ErrUserNotFound
	}
	return nil
}

// UpdateProfile updates the display name and/or password hash
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, name, passwordHash *string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, services.ErrUserNotFound
	}

	set := bson.M{}
	if name != nil {
		set["name"] = *name
	}
	if passwordHash != nil {
		set["password_hash"] = *passwordHash
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var user models.User
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.NewDomainError(services.ErrorTypeRepository, "failed to update user", err)
	}
	return &user, nil
}

// EnsureIndexes creates the unique email index
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.NewDomainError(services.ErrorTypeRepository, "failed to fetch user", err)
	}
	return &user, nil
}
