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

// mongodbRedemptionRepository implements RedemptionRepository using MongoDB
type mongodbRedemptionRepository struct {
	collection *mongo.Collection
}

// NewRedemptionRepository creates a new MongoDB-based redemption ledger
func NewRedemptionRepository(db *mongo.Database) RedemptionRepository {
	return &mongodbRedemptionRepository{
		collection: db.Collection(database.RedemptionsCollection),
	}
}

// Append inserts a new ledger entry
func (r *mongodbRedemptionRepository) Append(ctx context.Context, redemption *model.Redemption) error {
	_, err := r.collection.InsertOne(ctx, redemption)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrAlreadyRedeemed
		}
		return err
	}

	return nil
}

// SumForWallet returns the total base units redeemed by an address from a pool
func (r *mongodbRedemptionRepository) SumForWallet(ctx context.Context, poolID, claimantAddress string) (int64, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"pool_id":          poolID,
			"claimant_address": claimantAddress,
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}

	return results[0].Total, nil
}

// DistinctClaimantCount returns the number of unique claimant addresses
func (r *mongodbRedemptionRepository) DistinctClaimantCount(ctx context.Context, poolID string) (int64, error) {
	addresses, err := r.collection.Distinct(ctx, "claimant_address", bson.M{"pool_id": poolID})
	if err != nil {
		return 0, err
	}

	return int64(len(addresses)), nil
}

// HasRedeemed reports whether the address has already redeemed from the pool
func (r *mongodbRedemptionRepository) HasRedeemed(ctx context.Context, poolID, claimantAddress string) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{
		"pool_id":          poolID,
		"claimant_address": claimantAddress,
	}).Err()

	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// ListForPool returns all entries for a pool, oldest first
func (r *mongodbRedemptionRepository) ListForPool(ctx context.Context, poolID string) ([]*model.Redemption, error) {
	cursor, err := r.collection.Find(
		ctx,
		bson.M{"pool_id": poolID},
		options.Find().SetSort(bson.D{{Key: "redeemed_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var redemptions []*model.Redemption
	if err := cursor.All(ctx, &redemptions); err != nil {
		return nil, err
	}

	return redemptions, nil
}
