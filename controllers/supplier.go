package controllers

import (
	"net/http"

	"supermarket-erp/models"
	"supermarket-erp/store"
	"supermarket-erp/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SupplierController handles the supplier directory
type SupplierController struct {
	Store  store.SupplierStore
	Logger *zap.Logger
}

// NewSupplierController creates a new SupplierController
func NewSupplierController(suppliers store.SupplierStore, logger *zap.Logger) *SupplierController {
	return &SupplierController{Store: suppliers, Logger: logger}
}

func (sc *SupplierController) GetSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := sc.Store.ListSuppliers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, sc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, suppliers)
}

func (sc *SupplierController) GetSupplierByID(w http.ResponseWriter, r *http.Request) {
	supplier, err := sc.Store.GetSupplier(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, sc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, supplier)
}

func (sc *SupplierController) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier models.Supplier
	if err := decodeJSON(r, &supplier); err != nil {
		writeError(w, sc.Logger, err)
		return
	}

	created, err := sc.Store.CreateSupplier(r.Context(), supplier)
	if err != nil {
		writeError(w, sc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, created)
}

func (sc *SupplierController) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier models.Supplier
	if err := decodeJSON(r, &supplier); err != nil {
		writeError(w, sc.Logger, err)
		return
	}

	updated, err := sc.Store.UpdateSupplier(r.Context(), mux.Vars(r)["id"], supplier)
	if err != nil {
		writeError(w, sc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, updated)
}

func (sc *SupplierController) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := sc.Store.DeleteSupplier(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, sc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Supplier deleted"})
}
