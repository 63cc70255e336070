package controllers

import (
	"context"
	"net/http"
	"strings"

	"supermarket-erp/middleware"
	"supermarket-erp/models"
	"supermarket-erp/pos"
	"supermarket-erp/store"
	"supermarket-erp/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// POSController drives the checkout counter: one cart per signed-in cashier
type POSController struct {
	Sessions *pos.Registry
	Products store.ProductStore
	Recorder *pos.Recorder
	Calc     pos.Calculator
	Notifier *Notifier
	Logger   *zap.Logger
}

// NewPOSController creates a new POSController
func NewPOSController(sessions *pos.Registry, products store.ProductStore, recorder *pos.Recorder, calc pos.Calculator, notifier *Notifier, logger *zap.Logger) *POSController {
	return &POSController{
		Sessions: sessions,
		Products: products,
		Recorder: recorder,
		Calc:     calc,
		Notifier: notifier,
		Logger:   logger,
	}
}

// CartItemView is a cart line as shown on the till
type CartItemView struct {
	pos.CartLine
	LineTotal int64 `json:"lineTotal"`
}

// CartView is the cart with its derived totals
type CartView struct {
	Items []CartItemView `json:"items"`
	pos.Totals
	TaxRate string `json:"taxRate"`
}

// AddItemRequest adds a product by id or by scanned code
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Code      string `json:"code"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest sets the exact quantity of a line
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutRequest settles the cart
type CheckoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

func (pc *POSController) view(cart *pos.Cart) CartView {
	lines := cart.Lines()
	items := make([]CartItemView, len(lines))
	for i, l := range lines {
		items[i] = CartItemView{CartLine: l, LineTotal: l.LineTotal()}
	}
	return CartView{
		Items:   items,
		Totals:  pc.Calc.Totals(lines),
		TaxRate: pc.Calc.Rate().String(),
	}
}

func (pc *POSController) session(w http.ResponseWriter, r *http.Request) (*pos.Session, *utils.Claims, bool) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, nil, false
	}
	return pc.Sessions.Session(claims.UserID), claims, true
}

func (pc *POSController) lookup(ctx context.Context, req AddItemRequest) (models.Product, error) {
	switch {
	case strings.TrimSpace(req.ProductID) != "":
		return pc.Products.GetProduct(ctx, req.ProductID)
	case strings.TrimSpace(req.Code) != "":
		return pc.Products.FindByCode(ctx, req.Code)
	default:
		return models.Product{}, &models.ValidationError{Field: "productId", Reason: "productId or code is required"}
	}
}

// GetCart returns the cashier's cart
func (pc *POSController) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := pc.session(w, r)
	if !ok {
		return
	}
	var view CartView
	_ = sess.Do(func(c *pos.Cart) error {
		view = pc.view(c)
		return nil
	})
	utils.WriteJSON(w, http.StatusOK, view)
}

// ClearCart empties the cashier's cart
func (pc *POSController) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := pc.session(w, r)
	if !ok {
		return
	}
	var view CartView
	_ = sess.Do(func(c *pos.Cart) error {
		c.Clear()
		view = pc.view(c)
		return nil
	})
	utils.WriteJSON(w, http.StatusOK, view)
}

// AddItem puts a product in the cart. A missing quantity means one unit.
func (pc *POSController) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := pc.session(w, r)
	if !ok {
		return
	}
	var req AddItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := pc.lookup(r.Context(), req)
	if err != nil {
		writeError(w, pc.Logger, err)
		return
	}

	var view CartView
	err = sess.Do(func(c *pos.Cart) error {
		if err := c.AddLine(pos.SnapshotOf(product), req.Quantity); err != nil {
			return err
		}
		view = pc.view(c)
		return nil
	})
	if err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// UpdateItem sets a line's quantity; zero removes the line and a product that is
// not in the cart is left alone
func (pc *POSController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := pc.session(w, r)
	if !ok {
		return
	}
	var req UpdateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	productID := mux.Vars(r)["productId"]

	var view CartView
	err := sess.Do(func(c *pos.Cart) error {
		if !c.Has(productID) || req.Quantity <= 0 {
			c.RemoveLine(productID)
			view = pc.view(c)
			return nil
		}
		product, err := pc.Products.GetProduct(r.Context(), productID)
		if err != nil {
			return err
		}
		if err := c.UpdateLine(pos.SnapshotOf(product), req.Quantity); err != nil {
			return err
		}
		view = pc.view(c)
		return nil
	})
	if err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// RemoveItem drops a line from the cart
func (pc *POSController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := pc.session(w, r)
	if !ok {
		return
	}
	productID := mux.Vars(r)["productId"]

	var view CartView
	_ = sess.Do(func(c *pos.Cart) error {
		c.RemoveLine(productID)
		view = pc.view(c)
		return nil
	})
	utils.WriteJSON(w, http.StatusOK, view)
}

// revalidate reloads every line from the catalog so checkout uses current prices. It
// fails without touching the cart when stock went below a line's quantity.
func (pc *POSController) revalidate(ctx context.Context, c *pos.Cart) error {
	lines := c.Lines()
	snaps := make([]pos.Product, 0, len(lines))
	for _, l := range lines {
		product, err := pc.Products.GetProduct(ctx, l.ProductID)
		if err != nil {
			return err
		}
		snaps = append(snaps, pos.SnapshotOf(product))
	}
	return c.RefreshAll(snaps)
}

// Checkout records the cart as a sale. The cart is only cleared when the sale is stored.
func (pc *POSController) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, claims, ok := pc.session(w, r)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, pc.Logger, err)
		return
	}
	method, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeError(w, pc.Logger, err)
		return
	}

	ctx, cancel := persistContext(r)
	defer cancel()

	var sale models.Sale
	err = sess.Do(func(c *pos.Cart) error {
		if c.Len() == 0 {
			return pos.ErrEmptyCart
		}
		if err := pc.revalidate(ctx, c); err != nil {
			return err
		}
		var err error
		sale, err = pc.Recorder.Checkout(ctx, c, method, claims.Name)
		return err
	})
	if err != nil {
		writeError(w, pc.Logger, err)
		return
	}

	pc.Logger.Info("checkout completed",
		zap.String("transaction_id", sale.TransactionID),
		zap.String("cashier", sale.Cashier),
		zap.Int("lines", len(sale.Lines)),
		zap.Int64("total", sale.Total),
		zap.String("payment_method", string(sale.PaymentMethod)),
	)
	pc.Notifier.SaleRecorded(ctx, sale)
	pc.Notifier.StockChanged(ctx, soldProducts(ctx, pc.Products, sale.Lines, pc.Logger))
	utils.WriteJSON(w, http.StatusCreated, sale)
}
