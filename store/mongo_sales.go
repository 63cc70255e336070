package store

import (
	"context"
	"fmt"

	"supermarket-erp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CreateSale inserts the sale, then decrements stock for each line clamped at zero.
// Stock failures after the insert are logged; the sale itself is already recorded.
func (s *MongoStore) CreateSale(ctx context.Context, draft models.Sale) (models.Sale, error) {
	sale, err := prepareSale(draft, s.now())
	if err != nil {
		return models.Sale{}, err
	}
	sale.ID = primitive.NewObjectID().Hex()

	if _, err := s.sales.InsertOne(ctx, sale); err != nil {
		return models.Sale{}, fmt.Errorf("failed to insert sale: %w", err)
	}

	for _, l := range sale.Lines {
		if err := s.moveStock(ctx, l.ProductID, -l.Quantity); err != nil {
			s.logger.Error("failed to decrement stock after sale",
				zap.String("sale_id", sale.ID),
				zap.String("product_id", l.ProductID),
				zap.Int("quantity", l.Quantity),
				zap.Error(err),
			)
		}
	}
	return sale, nil
}

func (s *MongoStore) GetSale(ctx context.Context, id string) (models.Sale, error) {
	var sale models.Sale
	if err := s.sales.FindOne(ctx, bson.M{"_id": id}).Decode(&sale); err != nil {
		return models.Sale{}, notFound(err)
	}
	return sale, nil
}

func (s *MongoStore) ListSales(ctx context.Context, filter models.SaleFilter) ([]models.Sale, error) {
	query := bson.M{}
	window := bson.M{}
	if !filter.Start.IsZero() {
		window["$gte"] = filter.Start
	}
	if !filter.End.IsZero() {
		window["$lte"] = filter.End
	}
	if len(window) > 0 {
		query["timestamp"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := s.sales.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return decodeAll[models.Sale](ctx, cursor)
}

// RefundSale inserts the compensating record for id and restocks its lines
func (s *MongoStore) RefundSale(ctx context.Context, id, cashier, reason string) (models.Sale, error) {
	original, err := s.GetSale(ctx, id)
	if err != nil {
		return models.Sale{}, err
	}
	if original.Status != models.SaleCompleted {
		return models.Sale{}, ErrNotRefundable
	}

	count, err := s.sales.CountDocuments(ctx, bson.M{"refund_of": id})
	if err != nil {
		return models.Sale{}, fmt.Errorf("failed to check refunds: %w", err)
	}
	if count > 0 {
		return models.Sale{}, ErrAlreadyRefunded
	}

	now := s.now()
	refund := original.Compensation(cashier, reason, now)
	refund.ID = primitive.NewObjectID().Hex()
	refund.TransactionID = newTransactionID(now)

	if _, err := s.sales.InsertOne(ctx, refund); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Sale{}, ErrAlreadyRefunded
		}
		return models.Sale{}, fmt.Errorf("failed to insert refund: %w", err)
	}

	for _, l := range original.Lines {
		if err := s.moveStock(ctx, l.ProductID, l.Quantity); err != nil {
			s.logger.Error("failed to restock refunded line",
				zap.String("refund_id", refund.ID),
				zap.String("product_id", l.ProductID),
				zap.Error(err),
			)
		}
	}
	return refund, nil
}
