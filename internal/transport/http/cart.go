package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/laka02/quickcart/internal/cart"
	"github.com/laka02/quickcart/internal/domain"
	"github.com/laka02/quickcart/internal/service"
)

// sessionHeader carries the shopper's session ID. The storefront
// generates it client-side and sends it on every cart request.
const sessionHeader = "X-Session-ID"

type CartHandler struct {
	carts          *cart.Store
	productService service.ProductService
	logger         hclog.Logger
}

func NewCartHandler(carts *cart.Store, ps service.ProductService, log hclog.Logger) *CartHandler {
	return &CartHandler{
		carts:          carts,
		productService: ps,
		logger:         log,
	}
}

// cartView is the JSON shape of a cart, with the rounded display total
type cartView struct {
	Items     []*cart.Line `json:"items"`
	ItemCount int          `json:"itemCount"`
	Total     string       `json:"total"`
}

func viewOf(c *cart.Cart) cartView {
	lines := c.Lines()
	if lines == nil {
		lines = []*cart.Line{}
	}
	return cartView{
		Items:     lines,
		ItemCount: c.ItemCount(),
		Total:     c.FormatTotal(),
	}
}

func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		respondError(w, http.StatusBadRequest, "Missing "+sessionHeader+" header")
		return "", false
	}
	return id, true
}

// GetCart handles GET /api/cart
//
// swagger:route GET /api/cart cart getCart
//
// Returns the session's cart.
//
// Responses:
//
//	200: cartResponse
//	400: errorResponse
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var view cartView
	h.carts.With(sessionID, func(c *cart.Cart) error {
		view = viewOf(c)
		return nil
	})

	respondJSON(w, http.StatusOK, view)
}

// addItemRequest is the body of POST /api/cart/items
type addItemRequest struct {
	ProductID string `json:"productId"`
}

// AddItem handles POST /api/cart/items
//
// swagger:route POST /api/cart/items cart addCartItem
//
// Adds one unit of a product to the cart, merging into an existing line.
//
// Responses:
//
//	200: cartResponse
//	400: errorResponse
//	404: errorResponse
//	409: errorResponse
//	500: errorResponse
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "Invalid cart item data")
		return
	}

	product, err := h.productService.GetProductByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("Error fetching product for cart", "error", err, "id", req.ProductID)
		respondError(w, http.StatusInternalServerError, "Error adding to cart")
		return
	}

	var view cartView
	err = h.carts.With(sessionID, func(c *cart.Cart) error {
		if err := c.Add(*product); err != nil {
			return err
		}
		view = viewOf(c)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrCartRejected) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("Error adding to cart", "error", err)
		respondError(w, http.StatusInternalServerError, "Error adding to cart")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// updateItemRequest is the body of PUT /api/cart/items/{id}
type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /api/cart/items/{id}
//
// swagger:route PUT /api/cart/items/{id} cart updateCartItem
//
// Sets a line's quantity, clamped to the product's stock at add time.
//
// Responses:
//
//	200: cartResponse
//	400: errorResponse
//	404: errorResponse
//	409: errorResponse
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	productID := mux.Vars(r)["id"]

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid cart item data")
		return
	}

	var view cartView
	err := h.carts.With(sessionID, func(c *cart.Cart) error {
		if err := c.UpdateQuantity(productID, req.Quantity); err != nil {
			return err
		}
		view = viewOf(c)
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "Item not in cart")
		case errors.Is(err, domain.ErrCartRejected):
			respondError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Error updating cart item", "error", err)
			respondError(w, http.StatusInternalServerError, "Error updating cart")
		}
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /api/cart/items/{id}
//
// swagger:route DELETE /api/cart/items/{id} cart removeCartItem
//
// Removes a line from the cart. Removing an absent line is a no-op.
//
// Responses:
//
//	200: cartResponse
//	400: errorResponse
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	productID := mux.Vars(r)["id"]

	var view cartView
	h.carts.With(sessionID, func(c *cart.Cart) error {
		c.Remove(productID)
		view = viewOf(c)
		return nil
	})

	respondJSON(w, http.StatusOK, view)
}

// ClearCart handles DELETE /api/cart
//
// swagger:route DELETE /api/cart cart clearCart
//
// Empties the session's cart.
//
// Responses:
//
//	200: cartResponse
//	400: errorResponse
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var view cartView
	h.carts.With(sessionID, func(c *cart.Cart) error {
		c.Clear()
		view = viewOf(c)
		return nil
	})

	respondJSON(w, http.StatusOK, view)
}
