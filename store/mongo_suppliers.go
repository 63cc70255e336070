package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"supermarket-erp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) ListSuppliers(ctx context.Context, search string) ([]models.Supplier, error) {
	query := bson.M{}
	if q := strings.TrimSpace(search); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"contact": re},
			bson.M{"category": re},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.suppliers.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return decodeAll[models.Supplier](ctx, cursor)
}

func (s *MongoStore) GetSupplier(ctx context.Context, id string) (models.Supplier, error) {
	var sup models.Supplier
	if err := s.suppliers.FindOne(ctx, bson.M{"_id": id}).Decode(&sup); err != nil {
		return models.Supplier{}, notFound(err)
	}
	return sup, nil
}

func (s *MongoStore) CreateSupplier(ctx context.Context, sup models.Supplier) (models.Supplier, error) {
	if err := sup.Validate(); err != nil {
		return models.Supplier{}, err
	}
	sup.ID = primitive.NewObjectID().Hex()
	sup.CreatedAt = s.now()

	if _, err := s.suppliers.InsertOne(ctx, sup); err != nil {
		return models.Supplier{}, fmt.Errorf("failed to create supplier: %w", err)
	}
	return sup, nil
}

func (s *MongoStore) UpdateSupplier(ctx context.Context, id string, sup models.Supplier) (models.Supplier, error) {
	if err := sup.Validate(); err != nil {
		return models.Supplier{}, err
	}

	update := bson.M{"$set": bson.M{
		"name":     sup.Name,
		"contact":  sup.Contact,
		"email":    sup.Email,
		"phone":    sup.Phone,
		"address":  sup.Address,
		"category": sup.Category,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Supplier
	if err := s.suppliers.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return models.Supplier{}, notFound(err)
	}
	return updated, nil
}

func (s *MongoStore) DeleteSupplier(ctx context.Context, id string) error {
	result, err := s.suppliers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
