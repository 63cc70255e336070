package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectMongo opens a pooled client and verifies it with a ping
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(5)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// MongoStore is a Store backed by MongoDB collections
type MongoStore struct {
	products  *mongo.Collection
	sales     *mongo.Collection
	suppliers *mongo.Collection
	users     *mongo.Collection
	logger    *zap.Logger
	now       func() time.Time
}

// NewMongoStore binds a MongoStore to the collections of db
func NewMongoStore(db *mongo.Database, logger *zap.Logger) *MongoStore {
	return &MongoStore{
		products:  db.Collection("products"),
		sales:     db.Collection("sales"),
		suppliers: db.Collection("suppliers"),
		users:     db.Collection("users"),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateIndexes creates the indexes the store relies on for uniqueness and ordering
func (s *MongoStore) CreateIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		index mongo.IndexModel
	}{
		{s.products, mongo.IndexModel{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.products, mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}}}},
		{s.sales, mongo.IndexModel{Keys: bson.D{{Key: "timestamp", Value: -1}}}},
		{s.sales, mongo.IndexModel{Keys: bson.D{{Key: "refund_of", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)}},
		{s.users, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
	}

	for _, ix := range indexes {
		if _, err := ix.coll.Indexes().CreateOne(ctx, ix.index); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", ix.coll.Name(), err)
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)

	out := make([]T, 0)
	for cursor.Next(ctx) {
		var v T
		if err := cursor.Decode(&v); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		out = append(out, v)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}
