// routes/routes.go
package routes

import (
	"net/http"
	"time"

	"supermarket-erp/controllers"
	"supermarket-erp/middleware"
	"supermarket-erp/models"
	"supermarket-erp/utils"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controllers groups the handlers served by the API
type Controllers struct {
	Users     *controllers.UserController
	Products  *controllers.ProductController
	Stock     *controllers.StockController
	Suppliers *controllers.SupplierController
	Sales     *controllers.SaleController
	POS       *controllers.POSController
	Reports   *controllers.ReportController
}

// NewRouter builds the application router with its middleware chain
func NewRouter(c Controllers, tokens *utils.TokenManager, logger *zap.Logger, timeout time.Duration) *mux.Router {
	router := mux.NewRouter()
	router.Use(chimw.RequestID, chimw.RealIP, middleware.RequestLogger(logger), chimw.Recoverer, chimw.Timeout(timeout))
	RegisterRoutes(router, c, tokens)
	return router
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, tokens *utils.TokenManager) {
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/login", c.Users.Login).Methods("POST")

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(tokens))
	protected.HandleFunc("/auth/logout", c.Users.Logout).Methods("POST")
	protected.HandleFunc("/auth/me", c.Users.GetProfile).Methods("GET")

	protected.HandleFunc("/products", c.Products.GetProducts).Methods("GET")
	protected.HandleFunc("/products/scan/{code}", c.Products.ScanProduct).Methods("GET")
	protected.HandleFunc("/products/{id}", c.Products.GetProductByID).Methods("GET")

	protected.HandleFunc("/stock", c.Stock.GetStock).Methods("GET")

	protected.HandleFunc("/suppliers", c.Suppliers.GetSuppliers).Methods("GET")
	protected.HandleFunc("/suppliers/{id}", c.Suppliers.GetSupplierByID).Methods("GET")

	protected.HandleFunc("/sales", c.Sales.GetSales).Methods("GET")
	protected.HandleFunc("/sales", c.Sales.CreateSale).Methods("POST")
	protected.HandleFunc("/sales/{id}", c.Sales.GetSaleByID).Methods("GET")

	protected.HandleFunc("/pos/cart", c.POS.GetCart).Methods("GET")
	protected.HandleFunc("/pos/cart", c.POS.ClearCart).Methods("DELETE")
	protected.HandleFunc("/pos/cart/items", c.POS.AddItem).Methods("POST")
	protected.HandleFunc("/pos/cart/items/{productId}", c.POS.UpdateItem).Methods("PUT")
	protected.HandleFunc("/pos/cart/items/{productId}", c.POS.RemoveItem).Methods("DELETE")
	protected.HandleFunc("/pos/checkout", c.POS.Checkout).Methods("POST")

	protected.HandleFunc("/dashboard/summary", c.Reports.GetDashboard).Methods("GET")

	// Manager routes
	manager := protected.NewRoute().Subrouter()
	manager.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
	manager.HandleFunc("/products", c.Products.CreateProduct).Methods("POST")
	manager.HandleFunc("/products/{id}", c.Products.UpdateProduct).Methods("PUT")
	manager.HandleFunc("/products/{id}", c.Products.DeleteProduct).Methods("DELETE")

	manager.HandleFunc("/stock/adjust", c.Stock.AdjustStock).Methods("POST")

	manager.HandleFunc("/suppliers", c.Suppliers.CreateSupplier).Methods("POST")
	manager.HandleFunc("/suppliers/{id}", c.Suppliers.UpdateSupplier).Methods("PUT")
	manager.HandleFunc("/suppliers/{id}", c.Suppliers.DeleteSupplier).Methods("DELETE")

	manager.HandleFunc("/sales/{id}/refund", c.Sales.RefundSale).Methods("POST")

	manager.HandleFunc("/reports/sales", c.Reports.GetSalesReport).Methods("GET")
	manager.HandleFunc("/reports/sales/export", c.Reports.ExportSales).Methods("GET")
	manager.HandleFunc("/reports/stock", c.Reports.GetStockReport).Methods("GET")

	// Admin routes
	admin := protected.NewRoute().Subrouter()
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.HandleFunc("/users", c.Users.Register).Methods("POST")
}
