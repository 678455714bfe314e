package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatus-io/storefront/internal/domain/product"
)

type productRequest struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Taxable     bool    `json:"taxable"`
	IsActive    bool    `json:"isActive"`
	Brand       string  `json:"brand"`
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if req.SKU == "" {
		h.respondMessage(w, "You must enter sku.")
		return
	}
	if req.Description == "" || req.Name == "" {
		h.respondMessage(w, "You must enter description & name.")
		return
	}
	if req.Quantity == 0 {
		h.respondMessage(w, "You must enter a quantity.")
		return
	}
	if req.Price == 0 {
		h.respondMessage(w, "You must enter a price.")
		return
	}

	if _, err := h.Products.GetBySKU(r.Context(), req.SKU); err == nil {
		h.respondMessage(w, "This sku is already in use.")
		return
	} else if !errors.Is(err, product.ErrNotFound) {
		h.respondError(w, r, err)
		return
	}

	var brandID uuid.UUID
	if req.Brand != "" {
		id, err := uuid.Parse(req.Brand)
		if err != nil {
			h.respondGeneric(w)
			return
		}
		brandID = id
	}

	p := &product.Product{
		ID:          uuid.New(),
		MerchantID:  identity(r).ID,
		BrandID:     brandID,
		SKU:         req.SKU,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Quantity:    req.Quantity,
		Price:       decimal.NewFromFloat(req.Price),
		Taxable:     req.Taxable,
		IsActive:    req.IsActive,
	}
	if err := h.Products.Create(r.Context(), p); err != nil {
		if errors.Is(err, product.ErrSKUTaken) {
			h.respondMessage(w, "This sku is already in use.")
			return
		}
		h.respondError(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product has been added successfully!",
		"product": newProductBody(p),
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.List(r.Context(), true)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"products": newProductBodies(products)})
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		h.respondMessage(w, "You must enter a search term.")
		return
	}

	products, err := h.Products.Search(r.Context(), name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if len(products) == 0 {
		h.respond(w, http.StatusNotFound, map[string]string{"message": "No products found."})
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"products": newProductBodies(products)})
}

func (h *Handler) getProductBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.GetBySlug(r.Context(), pathParam(r, "slug"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			h.respond(w, http.StatusNotFound, map[string]string{"message": "No product found."})
			return
		}
		h.respondError(w, r, err)
		return
	}
	if !p.IsActive {
		h.respond(w, http.StatusNotFound, map[string]string{"message": "No product found."})
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"product": newProductBody(p)})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	p, err := h.Products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			h.respond(w, http.StatusNotFound, map[string]string{"message": "No product found."})
			return
		}
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"product": newProductBody(p)})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}

	var req productRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}

	p, err := h.Products.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Slug != "" && req.Slug != p.Slug {
		if existing, err := h.Products.GetBySlug(r.Context(), req.Slug); err == nil && existing.ID != id {
			h.respondMessage(w, "Sku or slug is already in use.")
			return
		}
	}

	p.SKU = req.SKU
	p.Name = req.Name
	p.Slug = req.Slug
	p.Description = req.Description
	p.ImageURL = req.ImageURL
	p.Quantity = req.Quantity
	p.Price = decimal.NewFromFloat(req.Price)
	p.Taxable = req.Taxable
	if err := h.Products.Update(r.Context(), p); err != nil {
		if errors.Is(err, product.ErrSlugTaken) {
			h.respondMessage(w, "Sku or slug is already in use.")
			return
		}
		h.respondError(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product has been updated successfully!",
	})
}

func (h *Handler) updateProductActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}

	if err := h.Products.SetActive(r.Context(), req.IsActive, id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product has been updated successfully!",
	})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.Products.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product has been deleted successfully!",
	})
}
