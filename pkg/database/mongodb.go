package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by the repositories and the index bootstrap.
const (
	PoolsCollection       = "pools"
	RedemptionsCollection = "redemptions"
)

// MongoDB wraps the MongoDB client and database
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect establishes a connection to MongoDB
func Connect(ctx context.Context, uri, dbName string) (*MongoDB, error) {
	clientOptions := options.Client().ApplyURI(uri)

	// Set connection timeout
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)

	mongoDB := &MongoDB{
		Client:   client,
		Database: db,
	}

	// Create indexes
	if err := mongoDB.CreateIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return mongoDB, nil
}

// CreateIndexes creates all necessary indexes for the application
func (m *MongoDB) CreateIndexes(ctx context.Context) error {
	// Index on pools.owner_id for per-owner listings
	poolsCollection := m.Database.Collection(PoolsCollection)
	ownerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().SetName("pool_owner_index"),
	}
	if _, err := poolsCollection.Indexes().CreateOne(ctx, ownerIndex); err != nil {
		return fmt.Errorf("failed to create pool owner index: %w", err)
	}

	// Unique compound index on redemptions(pool_id, claimant_address).
	// This is the storage-level backstop against double redemption.
	redemptionsCollection := m.Database.Collection(RedemptionsCollection)
	claimantIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "pool_id", Value: 1},
			{Key: "claimant_address", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("pool_claimant_unique"),
	}
	if _, err := redemptionsCollection.Indexes().CreateOne(ctx, claimantIndex); err != nil {
		return fmt.Errorf("failed to create pool_claimant unique index: %w", err)
	}

	// Index on pool_id + redeemed_at for ordered audit listings
	auditIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "pool_id", Value: 1},
			{Key: "redeemed_at", Value: 1},
		},
		Options: options.Index().SetName("pool_redeemed_at_index"),
	}
	if _, err := redemptionsCollection.Indexes().CreateOne(ctx, auditIndex); err != nil {
		return fmt.Errorf("failed to create redeemed_at index: %w", err)
	}

	return nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
