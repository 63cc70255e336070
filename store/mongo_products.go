package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"supermarket-erp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func productQuery(filter models.ProductFilter) bson.M {
	query := bson.M{}
	if c := strings.TrimSpace(filter.Category); c != "" {
		query["category"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(c) + "$", Options: "i"}
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"sku": re},
			bson.M{"barcode": re},
		}
	}
	return query
}

func (s *MongoStore) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sku", Value: 1}})
	cursor, err := s.products.Find(ctx, productQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return decodeAll[models.Product](ctx, cursor)
}

func (s *MongoStore) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	if err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Product{}, notFound(err)
	}
	return p, nil
}

func (s *MongoStore) FindByCode(ctx context.Context, code string) (models.Product, error) {
	code = strings.TrimSpace(code)
	query := bson.M{"$or": bson.A{
		bson.M{"sku": strings.ToUpper(code)},
		bson.M{"barcode": code},
	}}
	var p models.Product
	if err := s.products.FindOne(ctx, query).Decode(&p); err != nil {
		return models.Product{}, notFound(err)
	}
	return p, nil
}

func (s *MongoStore) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Product{}, err
	}
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now

	if _, err := s.products.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Product{}, ErrDuplicateSKU
		}
		return models.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func (s *MongoStore) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Product{}, err
	}

	update := bson.M{"$set": bson.M{
		"sku":         p.SKU,
		"name":        p.Name,
		"category":    p.Category,
		"price":       p.Price,
		"cost":        p.Cost,
		"barcode":     p.Barcode,
		"image":       p.Image,
		"supplier_id": p.SupplierID,
		"stock":       p.Stock,
		"min_stock":   p.MinStock,
		"max_stock":   p.MaxStock,
		"updated_at":  s.now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	err := s.products.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if mongo.IsDuplicateKeyError(err) {
		return models.Product{}, ErrDuplicateSKU
	}
	if err != nil {
		return models.Product{}, notFound(err)
	}
	return updated, nil
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock applies delta atomically; the filter refuses updates that would go negative
func (s *MongoStore) AdjustStock(ctx context.Context, id string, delta int) (models.Product, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updated_at": s.now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	err := s.products.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, fmt.Errorf("failed to adjust stock: %w", err)
	}
	// Distinguish a missing product from a rejected decrement
	if _, getErr := s.GetProduct(ctx, id); getErr != nil {
		return models.Product{}, getErr
	}
	return models.Product{}, ErrNegativeStock
}

// moveStock shifts stock by delta without letting it drop below zero
func (s *MongoStore) moveStock(ctx context.Context, productID string, delta int) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "stock", Value: bson.D{{Key: "$max", Value: bson.A{
				0,
				bson.D{{Key: "$add", Value: bson.A{"$stock", delta}}},
			}}}},
			{Key: "updated_at", Value: s.now()},
		}}},
	}
	_, err := s.products.UpdateOne(ctx, bson.M{"_id": productID}, update)
	return err
}
