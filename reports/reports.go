// Package reports derives dashboard and report views from products and sales.
// All functions are pure; callers pass the clock.
package reports

import (
	"fmt"
	"sort"
	"time"

	"supermarket-erp/models"
)

const dayLayout = "2006-01-02"

// Period is a trailing reporting window
type Period string

const (
	Period7d  Period = "7d"
	Period30d Period = "30d"
	Period90d Period = "90d"
)

// ParsePeriod accepts 7d, 30d or 90d. An empty string means 30d.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return Period30d, nil
	case Period7d, Period30d, Period90d:
		return Period(s), nil
	}
	return "", &models.ValidationError{Field: "period", Reason: fmt.Sprintf("unsupported period %q", s)}
}

// Days returns the length of the window
func (p Period) Days() int {
	switch p {
	case Period7d:
		return 7
	case Period90d:
		return 90
	default:
		return 30
	}
}

// Since returns the start of the window ending at now
func (p Period) Since(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.Days())
}

func since(sales []models.Sale, start time.Time) []models.Sale {
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if !s.Timestamp.Before(start) {
			out = append(out, s)
		}
	}
	return out
}

// byDay buckets sales into the last days UTC calendar days ending today
func byDay(sales []models.Sale, days int, now time.Time) []models.DaySales {
	now = now.UTC()
	out := make([]models.DaySales, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, i-days+1).Format(dayLayout)
		out[i] = models.DaySales{Date: date}
		index[date] = i
	}
	for _, s := range sales {
		i, ok := index[s.Timestamp.UTC().Format(dayLayout)]
		if !ok {
			continue
		}
		out[i].Sales += s.Total
		if s.Status == models.SaleCompleted {
			out[i].Transactions++
		}
	}
	return out
}

// revenue sums totals; refunds carry negative totals and net out
func revenue(sales []models.Sale) (total int64, transactions int) {
	for _, s := range sales {
		total += s.Total
		if s.Status == models.SaleCompleted {
			transactions++
		}
	}
	return total, transactions
}

func roundedDiv(a int64, b int) int64 {
	if b == 0 {
		return 0
	}
	n := int64(b)
	if a < 0 {
		return -((-a + n/2) / n)
	}
	return (a + n/2) / n
}

// Dashboard builds the dashboard summary: 30 day figures, stock health and the
// last 7 days of sales.
func Dashboard(products []models.Product, sales []models.Sale, now time.Time) models.DashboardSummary {
	recent := since(sales, now.AddDate(0, 0, -30))
	total, transactions := revenue(recent)

	stats := models.DashboardStats{
		TotalSales:        total,
		TotalRevenue:      total,
		TotalTransactions: transactions,
		AverageTicket:     roundedDiv(total, transactions),
		TotalProducts:     len(products),
	}
	for _, p := range products {
		stats.TotalStockValue += int64(p.Stock) * p.Cost
		switch models.StockStatusOf(p.Stock, p.MinStock) {
		case models.StockOut:
			stats.OutOfStockCount++
			stats.LowStockCount++
		case models.StockLow:
			stats.LowStockCount++
		}
	}

	return models.DashboardSummary{
		Stats:       stats,
		SalesByDay:  byDay(since(sales, now.AddDate(0, 0, -7)), 7, now),
		LastUpdated: now.UTC().Format(time.RFC3339),
	}
}

// Sales builds the sales report for period
func Sales(products []models.Product, sales []models.Sale, period Period, now time.Time) models.SalesReport {
	window := since(sales, period.Since(now))

	categories := make(map[string]string, len(products))
	for _, p := range products {
		categories[p.ID] = p.Category
	}

	perProduct := make(map[string]*models.ProductSales)
	perCategory := make(map[string]*models.CategorySales)
	for _, s := range window {
		for _, l := range s.Lines {
			ps, ok := perProduct[l.ProductID]
			if !ok {
				ps = &models.ProductSales{ProductID: l.ProductID, Name: l.Name}
				perProduct[l.ProductID] = ps
			}
			ps.Quantity += l.Quantity
			ps.Revenue += l.LineTotal

			category := categories[l.ProductID]
			if category == "" {
				category = "Autre"
			}
			cs, ok := perCategory[category]
			if !ok {
				cs = &models.CategorySales{Category: category}
				perCategory[category] = cs
			}
			cs.Quantity += l.Quantity
			cs.Revenue += l.LineTotal
		}
	}

	top := make([]models.ProductSales, 0, len(perProduct))
	for _, ps := range perProduct {
		top = append(top, *ps)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Revenue != top[j].Revenue {
			return top[i].Revenue > top[j].Revenue
		}
		return top[i].ProductID < top[j].ProductID
	})
	if len(top) > 10 {
		top = top[:10]
	}

	cats := make([]models.CategorySales, 0, len(perCategory))
	for _, cs := range perCategory {
		cats = append(cats, *cs)
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Revenue != cats[j].Revenue {
			return cats[i].Revenue > cats[j].Revenue
		}
		return cats[i].Category < cats[j].Category
	})

	total, transactions := revenue(window)
	return models.SalesReport{
		Period:            string(period),
		SalesByDay:        byDay(window, period.Days(), now),
		TopProducts:       top,
		CategorySales:     cats,
		TotalRevenue:      total,
		TotalTransactions: transactions,
	}
}

var severity = map[models.StockStatus]int{
	models.StockOut: 0,
	models.StockLow: 1,
	models.StockOK:  2,
}

// Stock builds the stock report, most urgent items first
func Stock(products []models.Product) models.StockReport {
	report := models.StockReport{Items: make([]models.StockItem, 0, len(products))}
	for _, p := range products {
		item := p.StockItem()
		report.Items = append(report.Items, item)
		report.TotalValue += int64(p.Stock) * p.Cost
		report.TotalRetailValue += int64(p.Stock) * p.Price
		switch item.Status {
		case models.StockOut:
			report.OutOfStockCount++
			report.LowStockCount++
		case models.StockLow:
			report.LowStockCount++
		}
	}
	sort.SliceStable(report.Items, func(i, j int) bool {
		a, b := report.Items[i], report.Items[j]
		if severity[a.Status] != severity[b.Status] {
			return severity[a.Status] < severity[b.Status]
		}
		return a.Name < b.Name
	})
	return report
}
