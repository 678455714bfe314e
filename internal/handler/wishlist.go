package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mercatus-io/storefront/internal/domain/wishlist"
)

type wishlistRequest struct {
	Product string `json:"product" validate:"required,uuid"`
	IsLiked bool   `json:"isLiked"`
}

// addToWishlist records a liked product. Re-liking an already listed
// product updates the entry in place.
func (h *Handler) addToWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	productID, err := uuid.Parse(req.Product)
	if err != nil {
		h.respondGeneric(w)
		return
	}

	e := &wishlist.Entry{
		ID:        uuid.New(),
		UserID:    identity(r).ID,
		ProductID: productID,
		IsLiked:   req.IsLiked,
	}
	if err := h.Wishlists.Upsert(r.Context(), e); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Added to your Wishlist successfully!",
		"wishlist": newWishlistBody(*e),
	})
}

func (h *Handler) listWishlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Wishlists.ListByUser(r.Context(), identity(r).ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"wishlist": newWishlistBodies(entries)})
}

func (h *Handler) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.Wishlists.Delete(r.Context(), identity(r).ID, productID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}
