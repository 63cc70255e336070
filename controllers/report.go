package controllers

import (
	"fmt"
	"net/http"
	"time"

	"supermarket-erp/models"
	"supermarket-erp/reports"
	"supermarket-erp/store"
	"supermarket-erp/utils"

	"go.uber.org/zap"
)

// ReportController serves the dashboard and the management reports
type ReportController struct {
	Products store.ProductStore
	Sales    store.SaleStore
	Logger   *zap.Logger
	now      func() time.Time
}

// NewReportController creates a new ReportController
func NewReportController(s store.Store, logger *zap.Logger) *ReportController {
	return &ReportController{
		Products: s,
		Sales:    s,
		Logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (rc *ReportController) load(r *http.Request, since time.Time) ([]models.Product, []models.Sale, error) {
	products, err := rc.Products.ListProducts(r.Context(), models.ProductFilter{})
	if err != nil {
		return nil, nil, err
	}
	sales, err := rc.Sales.ListSales(r.Context(), models.SaleFilter{Start: since})
	if err != nil {
		return nil, nil, err
	}
	return products, sales, nil
}

// GetDashboard returns the 30 day summary and the last 7 days of sales
func (rc *ReportController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	now := rc.now()
	products, sales, err := rc.load(r, reports.Period30d.Since(now))
	if err != nil {
		writeError(w, rc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reports.Dashboard(products, sales, now))
}

// GetSalesReport aggregates sales over ?period=7d|30d|90d
func (rc *ReportController) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	period, err := reports.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, rc.Logger, err)
		return
	}
	now := rc.now()
	products, sales, err := rc.load(r, period.Since(now))
	if err != nil {
		writeError(w, rc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reports.Sales(products, sales, period, now))
}

// ExportSales streams the sales of ?period as CSV
func (rc *ReportController) ExportSales(w http.ResponseWriter, r *http.Request) {
	period, err := reports.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, rc.Logger, err)
		return
	}
	now := rc.now()
	sales, err := rc.Sales.ListSales(r.Context(), models.SaleFilter{Start: period.Since(now)})
	if err != nil {
		writeError(w, rc.Logger, err)
		return
	}

	filename := fmt.Sprintf("ventes-%s-%s.csv", period, now.Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := reports.WriteSalesCSV(w, sales); err != nil {
		rc.Logger.Error("sales export interrupted", zap.Error(err))
	}
}

// GetStockReport returns stock levels with their valuation
func (rc *ReportController) GetStockReport(w http.ResponseWriter, r *http.Request) {
	products, err := rc.Products.ListProducts(r.Context(), models.ProductFilter{})
	if err != nil {
		writeError(w, rc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reports.Stock(products))
}
