package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Travisswop/swop-redeem-token/internal/model"
	"github.com/Travisswop/swop-redeem-token/pkg/database"
	apperrors "github.com/Travisswop/swop-redeem-token/pkg/errors"
)

// mongodbPoolRepository implements PoolRepository using MongoDB
type mongodbPoolRepository struct {
	collection *mongo.Collection
}

// NewPoolRepository creates a new MongoDB-based pool repository
func NewPoolRepository(db *mongo.Database) PoolRepository {
	return &mongodbPoolRepository{
		collection: db.Collection(database.PoolsCollection),
	}
}

// Create persists a new pool row
func (r *mongodbPoolRepository) Create(ctx context.Context, pool *model.Pool) error {
	_, err := r.collection.InsertOne(ctx, pool)
	return err
}

// GetByID retrieves a pool by its identifier
func (r *mongodbPoolRepository) GetByID(ctx context.Context, poolID string) (*model.Pool, error) {
	var pool model.Pool
	err := r.collection.FindOne(ctx, bson.M{"_id": poolID}).Decode(&pool)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrPoolNotFound
		}
		return nil, err
	}

	return &pool, nil
}

// DecrementRemaining atomically decrements the remaining balance of a pool.
// The filter makes the update conditional on remaining_amount >= amount, so
// the balance can never go negative regardless of isolation level.
func (r *mongodbPoolRepository) DecrementRemaining(ctx context.Context, poolID string, amount int64) (*model.Pool, error) {
	var pool model.Pool
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{
			"_id":              poolID,
			"remaining_amount": bson.M{"$gte": amount},
		},
		bson.M{"$inc": bson.M{"remaining_amount": -amount}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetUpsert(false),
	).Decode(&pool)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the pool is gone or the balance is short; both leave
			// the row untouched. Distinguish for the caller.
			if _, getErr := r.GetByID(ctx, poolID); getErr != nil {
				return nil, getErr
			}
			return nil, apperrors.ErrInsufficientFunds
		}
		return nil, err
	}

	return &pool, nil
}

// ListByOwner retrieves the pools created by an owner, newest first
func (r *mongodbPoolRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Pool, error) {
	cursor, err := r.collection.Find(
		ctx,
		bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pools []*model.Pool
	if err := cursor.All(ctx, &pools); err != nil {
		return nil, err
	}

	return pools, nil
}
