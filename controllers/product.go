package controllers

import (
	"net/http"

	"supermarket-erp/models"
	"supermarket-erp/store"
	"supermarket-erp/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ProductController handles catalog requests
type ProductController struct {
	Store  store.ProductStore
	Logger *zap.Logger
}

// NewProductController creates a new ProductController
func NewProductController(products store.ProductStore, logger *zap.Logger) *ProductController {
	return &ProductController{
		Store:  products,
		Logger: logger,
	}
}

// GetProducts lists the catalog, optionally narrowed by ?search= and ?category=
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}

	products, err := pc.Store.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

// GetProductByID retrieves a single product
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	product, err := pc.Store.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// ScanProduct resolves a scanned barcode or typed SKU
func (pc *ProductController) ScanProduct(w http.ResponseWriter, r *http.Request) {
	product, err := pc.Store.FindByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// CreateProduct adds a product to the catalog
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := decodeJSON(r, &product); err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	product.ID = ""

	created, err := pc.Store.CreateProduct(r.Context(), product)
	if err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	pc.Logger.Info("product created", zap.String("id", created.ID), zap.String("sku", created.SKU))
	utils.WriteJSON(w, http.StatusCreated, created)
}

// UpdateProduct replaces a product's details
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := decodeJSON(r, &product); err != nil {
		writeError(w, pc.Logger, err)
		return
	}

	updated, err := pc.Store.UpdateProduct(r.Context(), mux.Vars(r)["id"], product)
	if err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, updated)
}

// DeleteProduct removes a product from the catalog
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := pc.Store.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	pc.Logger.Info("product deleted", zap.String("id", id))
	utils.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted"})
}
