package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mercatus-io/storefront/internal/domain/category"
)

type categoryRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Slug        string   `json:"slug"`
	Products    []string `json:"products"`
	IsActive    bool     `json:"isActive"`
}

func (r categoryRequest) productIDs() ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(r.Products))
	for i, raw := range r.Products {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if req.Name == "" || req.Description == "" {
		h.respondMessage(w, "You must enter description & name.")
		return
	}
	productIDs, err := req.productIDs()
	if err != nil {
		h.respondGeneric(w)
		return
	}

	c := &category.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ProductIDs:  productIDs,
		IsActive:    req.IsActive,
	}
	if err := h.Categories.Create(r.Context(), c); err != nil {
		if errors.Is(err, category.ErrSlugTaken) {
			h.respondMessage(w, "Slug is already in use.")
			return
		}
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Category has been added successfully!",
		"category": newCategoryBody(c),
	})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.List(r.Context(), true)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"categories": newCategoryBodies(categories)})
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	c, err := h.Categories.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			h.respond(w, http.StatusNotFound, map[string]string{"message": "No Category found."})
			return
		}
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"category": newCategoryBody(c)})
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}

	var req categoryRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	productIDs, err := req.productIDs()
	if err != nil {
		h.respondGeneric(w)
		return
	}

	c, err := h.Categories.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Slug != "" && req.Slug != c.Slug {
		if existing, err := h.Categories.GetBySlug(r.Context(), req.Slug); err == nil && existing.ID != id {
			h.respondMessage(w, "Slug is already in use.")
			return
		}
	}

	c.Name = req.Name
	c.Slug = req.Slug
	c.Description = req.Description
	c.ProductIDs = productIDs
	if err := h.Categories.Update(r.Context(), c); err != nil {
		if errors.Is(err, category.ErrSlugTaken) {
			h.respondMessage(w, "Slug is already in use.")
			return
		}
		h.respondError(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Category has been updated successfully!",
	})
}

// updateCategoryActive toggles category visibility; deactivation also
// disables every product the category lists.
func (h *Handler) updateCategoryActive(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Catalog.SetCategoryActive(r.Context(), id, req.IsActive); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Category has been updated successfully!",
	})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.Categories.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Category has been deleted successfully!",
	})
}
