package controllers

import (
	"net/http"

	"supermarket-erp/models"
	"supermarket-erp/store"
	"supermarket-erp/utils"

	"go.uber.org/zap"
)

// StockController exposes stock levels and manual adjustments
type StockController struct {
	Store    store.ProductStore
	Notifier *Notifier
	Logger   *zap.Logger
}

// NewStockController creates a new StockController
func NewStockController(products store.ProductStore, notifier *Notifier, logger *zap.Logger) *StockController {
	return &StockController{Store: products, Notifier: notifier, Logger: logger}
}

// GetStock lists stock levels. ?status=low keeps items needing a restock, ?status=out
// only the ones at zero.
func (sc *StockController) GetStock(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != string(models.StockLow) && status != string(models.StockOut) {
		writeError(w, sc.Logger, &models.ValidationError{Field: "status", Reason: "must be low or out"})
		return
	}

	products, err := sc.Store.ListProducts(r.Context(), models.ProductFilter{})
	if err != nil {
		writeError(w, sc.Logger, err)
		return
	}

	items := make([]models.StockItem, 0, len(products))
	for _, p := range products {
		item := p.StockItem()
		switch status {
		case string(models.StockLow):
			if !item.NeedsRestock() {
				continue
			}
		case string(models.StockOut):
			if item.Status != models.StockOut {
				continue
			}
		}
		items = append(items, item)
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

// AdjustStock applies a manual add or remove to a product's stock
func (sc *StockController) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var adj models.StockAdjustment
	if err := decodeJSON(r, &adj); err != nil {
		writeError(w, sc.Logger, err)
		return
	}
	if err := adj.Validate(); err != nil {
		writeError(w, sc.Logger, err)
		return
	}

	product, err := sc.Store.AdjustStock(r.Context(), adj.ProductID, adj.Delta())
	if err != nil {
		writeError(w, sc.Logger, err)
		return
	}

	sc.Logger.Info("stock adjusted",
		zap.String("product_id", product.ID),
		zap.Int("delta", adj.Delta()),
		zap.Int("stock", product.Stock),
		zap.String("reason", adj.Reason),
	)
	sc.Notifier.StockChanged(r.Context(), []models.Product{product})
	utils.WriteJSON(w, http.StatusOK, product.StockItem())
}
