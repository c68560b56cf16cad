package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/cart"
)

type AddItemRequestDTO struct {
	ProductID int64 `json:"productId"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type CartResponseDTO struct {
	Items     []cart.Line     `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

func (h *Handler) cartResponse(store *cart.Store) CartResponseDTO {
	sum := store.Summary(h.opts.TaxRate)
	items := store.Lines()
	if items == nil {
		items = []cart.Line{}
	}
	return CartResponseDTO{
		Items:     items,
		ItemCount: sum.Items,
		Subtotal:  sum.Subtotal,
		Tax:       sum.Tax,
		Total:     sum.Total,
	}
}

// GET /api/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse(sessionFrom(r).Cart))
}

// POST /api/cart/items
// The product is looked up in the catalog so that name and price come from
// the catalog, not from the caller.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}

	p, err := h.backendsFor(r).Catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}

	store := sessionFrom(r).Cart
	store.AddToCart(cart.FromDomain(*p))
	respondJSON(w, http.StatusCreated, h.cartResponse(store))
}

// PUT /api/cart/items/{productId}
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(r, "productId")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}

	store := sessionFrom(r).Cart
	store.UpdateQuantity(productID, *req.Quantity)
	respondJSON(w, http.StatusOK, h.cartResponse(store))
}

// DELETE /api/cart/items/{productId}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(r, "productId")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a positive integer")
		return
	}

	store := sessionFrom(r).Cart
	store.RemoveFromCart(productID)
	respondJSON(w, http.StatusOK, h.cartResponse(store))
}

// DELETE /api/cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store := sessionFrom(r).Cart
	store.ClearCart()
	respondJSON(w, http.StatusOK, h.cartResponse(store))
}
