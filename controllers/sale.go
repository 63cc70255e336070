package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"supermarket-erp/middleware"
	"supermarket-erp/models"
	"supermarket-erp/pos"
	"supermarket-erp/store"
	"supermarket-erp/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// SaleController handles the sales journal
type SaleController struct {
	Sales      store.SaleStore
	Products   store.ProductStore
	Calculator pos.Calculator
	Notifier   *Notifier
	Logger     *zap.Logger
}

// NewSaleController creates a new SaleController
func NewSaleController(s store.Store, calc pos.Calculator, notifier *Notifier, logger *zap.Logger) *SaleController {
	return &SaleController{
		Sales:      s,
		Products:   s,
		Calculator: calc,
		Notifier:   notifier,
		Logger:     logger,
	}
}

// RefundRequest is the body of a refund
type RefundRequest struct {
	Reason string `json:"reason"`
}

// parseDate accepts RFC 3339 timestamps or plain dates. A plain end date covers the
// whole day.
func parseDate(field, value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &models.ValidationError{Field: field, Reason: "expected YYYY-MM-DD or RFC 3339"}
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func saleFilterFrom(r *http.Request) (models.SaleFilter, error) {
	q := r.URL.Query()
	var (
		f   models.SaleFilter
		err error
	)
	if f.Start, err = parseDate("startDate", q.Get("startDate"), false); err != nil {
		return f, err
	}
	if f.End, err = parseDate("endDate", q.Get("endDate"), true); err != nil {
		return f, err
	}
	if !f.Start.IsZero() && !f.End.IsZero() && f.End.Before(f.Start) {
		return f, &models.ValidationError{Field: "endDate", Reason: "before startDate"}
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, &models.ValidationError{Field: "limit", Reason: "must be a positive integer"}
		}
		f.Limit = n
	}
	return f, nil
}

// GetSales lists sales newest first, filtered by ?startDate, ?endDate and ?limit
func (sc *SaleController) GetSales(w http.ResponseWriter, r *http.Request) {
	filter, err := saleFilterFrom(r)
	if err != nil {
		writeError(w, sc.Logger, err)
		return
	}

	sales, err := sc.Sales.ListSales(r.Context(), filter)
	if err != nil {
		writeError(w, sc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sales)
}

// GetSaleByID retrieves a single sale
func (sc *SaleController) GetSaleByID(w http.ResponseWriter, r *http.Request) {
	sale, err := sc.Sales.GetSale(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, sc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sale)
}

// CreateSale records a sale built by a client. The amounts are recomputed with the
// configured tax rate and must match what the client sent.
func (sc *SaleController) CreateSale(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var draft models.Sale
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, sc.Logger, err)
		return
	}
	if err := sc.checkTotals(draft); err != nil {
		writeError(w, sc.Logger, err)
		return
	}
	draft.ID = ""
	draft.TransactionID = ""
	draft.RefundOf = ""
	draft.Timestamp = time.Time{}
	draft.Cashier = claims.Name

	ctx, cancel := persistContext(r)
	defer cancel()

	sale, err := sc.Sales.CreateSale(ctx, draft)
	if err != nil {
		writeError(w, sc.Logger, err)
		return
	}

	sc.Logger.Info("sale recorded",
		zap.String("transaction_id", sale.TransactionID),
		zap.Int64("total", sale.Total),
		zap.String("cashier", sale.Cashier),
	)
	sc.Notifier.SaleRecorded(ctx, sale)
	sc.Notifier.StockChanged(ctx, soldProducts(ctx, sc.Products, sale.Lines, sc.Logger))
	utils.WriteJSON(w, http.StatusCreated, sale)
}

func (sc *SaleController) checkTotals(draft models.Sale) error {
	lines := make([]pos.CartLine, len(draft.Lines))
	for i, l := range draft.Lines {
		lines[i] = pos.CartLine{ProductID: l.ProductID, UnitPrice: l.UnitPrice, Quantity: l.Quantity}
	}
	totals := sc.Calculator.Totals(lines)
	switch {
	case draft.Subtotal != totals.Subtotal:
		return &models.ValidationError{Field: "subtotal", Reason: "does not match the line totals"}
	case draft.Tax != totals.Tax:
		return &models.ValidationError{Field: "tax", Reason: "does not match the configured tax rate"}
	case draft.Total != totals.Total:
		return &models.ValidationError{Field: "total", Reason: "does not equal subtotal + tax"}
	}
	return nil
}

// RefundSale reverses a completed sale and puts its items back in stock
func (sc *SaleController) RefundSale(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RefundRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, sc.Logger, err)
			return
		}
	}

	id := mux.Vars(r)["id"]
	ctx, cancel := persistContext(r)
	defer cancel()

	refund, err := sc.Sales.RefundSale(ctx, id, claims.Name, req.Reason)
	if err != nil {
		writeError(w, sc.Logger, err)
		return
	}
	sc.Logger.Info("sale refunded",
		zap.String("sale_id", id),
		zap.String("refund_id", refund.ID),
		zap.Int64("total", refund.Total),
	)
	utils.WriteJSON(w, http.StatusCreated, refund)
}

// soldProducts reloads the products of lines so their post-sale stock can be checked
func soldProducts(ctx context.Context, products store.ProductStore, lines []models.SaleLine, logger *zap.Logger) []models.Product {
	out := make([]models.Product, 0, len(lines))
	for _, l := range lines {
		p, err := products.GetProduct(ctx, l.ProductID)
		if err != nil {
			logger.Warn("reload sold product", zap.String("product_id", l.ProductID), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out
}
