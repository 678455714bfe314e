package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mercatus-io/storefront/internal/domain/brand"
)

type brandRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	IsActive    bool   `json:"isActive"`
}

func (h *Handler) addBrand(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if req.Name == "" || req.Description == "" {
		h.respondMessage(w, "You must enter description & name.")
		return
	}

	b := &brand.Brand{
		ID:          uuid.New(),
		MerchantID:  identity(r).ID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    req.IsActive,
	}
	if err := h.Brands.Create(r.Context(), b); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Brand has been added successfully!",
		"brand":   newBrandBody(b),
	})
}

func (h *Handler) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.Brands.List(r.Context(), true)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"brands": newBrandBodies(brands)})
}

func (h *Handler) getBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	b, err := h.Brands.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"brand": newBrandBody(b)})
}

func (h *Handler) updateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}

	var req brandRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}

	b, err := h.Brands.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	b.Name = req.Name
	b.Slug = req.Slug
	b.Description = req.Description
	if err := h.Brands.Update(r.Context(), b); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Brand has been updated successfully!",
	})
}

// updateBrandActive toggles brand visibility; deactivation also disables
// every product under the brand.
func (h *Handler) updateBrandActive(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Catalog.SetBrandActive(r.Context(), id, req.IsActive); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Brand has been updated successfully!",
	})
}

func (h *Handler) deleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.Brands.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Brand has been deleted successfully!",
	})
}
