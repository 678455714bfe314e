package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatus-io/storefront/internal/domain/cart"
)

type cartItemRequest struct {
	Product  string  `json:"product" validate:"required,uuid"`
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ImageURL string  `json:"imageUrl"`
	Price    float64 `json:"price"`
	Taxable  bool    `json:"taxable"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
}

type addCartRequest struct {
	Products []cartItemRequest `json:"products" validate:"required,min=1,dive"`
}

type addCartItemRequest struct {
	Product cartItemRequest `json:"product" validate:"required"`
}

func (r cartItemRequest) toItem() (cart.Item, error) {
	productID, err := uuid.Parse(r.Product)
	if err != nil {
		return cart.Item{}, err
	}
	return cart.Item{
		ProductID: productID,
		SKU:       r.SKU,
		Name:      r.Name,
		Slug:      r.Slug,
		ImageURL:  r.ImageURL,
		Price:     decimal.NewFromFloat(r.Price),
		Taxable:   r.Taxable,
		Quantity:  r.Quantity,
	}, nil
}

func (h *Handler) addCart(w http.ResponseWriter, r *http.Request) {
	var req addCartRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondGeneric(w)
		return
	}

	items := make([]cart.Item, len(req.Products))
	for i, p := range req.Products {
		item, err := p.toItem()
		if err != nil {
			h.respondGeneric(w)
			return
		}
		items[i] = item
	}
	items = h.Pricing.SalesTax(items)

	cartID, err := h.Carts.AddCart(r.Context(), identity(r).ID, items)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"cartId":  cartID,
	})
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathID(r, "cartId")
	if err != nil {
		h.respondGeneric(w)
		return
	}

	var req addCartItemRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondGeneric(w)
		return
	}

	item, err := req.Product.toItem()
	if err != nil {
		h.respondGeneric(w)
		return
	}
	enriched := h.Pricing.SalesTax([]cart.Item{item})

	if err := h.Carts.AddItem(r.Context(), cartID, enriched[0]); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) deleteCart(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathID(r, "cartId")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.Carts.DeleteCart(r.Context(), cartID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathID(r, "cartId")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	itemID, err := pathID(r, "productId")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.Carts.RemoveItem(r.Context(), cartID, itemID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}
