package controllers

import (
	"context"
	"sync"

	"supermarket-erp/events"
	"supermarket-erp/models"
	"supermarket-erp/utils"

	"go.uber.org/zap"
)

// Notifier fans out sale and stock events to the broker and the alert mailbox.
// Failures are logged and never reach the caller.
type Notifier struct {
	events events.Publisher
	email  *utils.EmailService
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewNotifier creates a Notifier. email may be nil to disable alert mails.
func NewNotifier(publisher events.Publisher, email *utils.EmailService, logger *zap.Logger) *Notifier {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Notifier{events: publisher, email: email, logger: logger}
}

// SaleRecorded announces a completed sale
func (n *Notifier) SaleRecorded(ctx context.Context, sale models.Sale) {
	if err := n.events.PublishSaleRecorded(ctx, sale); err != nil {
		n.logger.Warn("publish sale.recorded failed",
			zap.String("transaction_id", sale.TransactionID), zap.Error(err))
	}
}

// StockChanged raises alerts for every product left at or below its minimum
func (n *Notifier) StockChanged(ctx context.Context, products []models.Product) {
	var low []models.StockItem
	for _, p := range products {
		item := p.StockItem()
		if !item.NeedsRestock() {
			continue
		}
		low = append(low, item)
		if err := n.events.PublishStockLow(ctx, item); err != nil {
			n.logger.Warn("publish stock.low failed", zap.String("sku", item.SKU), zap.Error(err))
		}
	}
	if len(low) == 0 || n.email == nil {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.email.SendLowStockAlert(low); err != nil {
			n.logger.Warn("low stock alert email failed", zap.Int("items", len(low)), zap.Error(err))
		}
	}()
}

// Wait blocks until pending alert emails are sent
func (n *Notifier) Wait() {
	n.wg.Wait()
}
