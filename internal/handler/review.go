package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mercatus-io/storefront/internal/domain/product"
	"github.com/mercatus-io/storefront/internal/domain/review"
)

type reviewRequest struct {
	Product       string `json:"product" validate:"required,uuid"`
	Title         string `json:"title" validate:"required"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Review        string `json:"review" validate:"required"`
	IsRecommended bool   `json:"isRecommended"`
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondGeneric(w)
		return
	}
	productID, err := uuid.Parse(req.Product)
	if err != nil {
		h.respondGeneric(w)
		return
	}

	rv := &review.Review{
		ID:            uuid.New(),
		ProductID:     productID,
		UserID:        identity(r).ID,
		Title:         req.Title,
		Rating:        req.Rating,
		Review:        req.Review,
		IsRecommended: req.IsRecommended,
		Status:        review.StatusWaiting,
	}
	if err := h.Reviews.Create(r.Context(), rv); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Your review has been added successfully and will appear when approved!",
		"review":  newReviewBody(rv),
	})
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"reviews": newReviewBodies(reviews)})
}

// listProductReviews returns approved reviews for the product behind a
// slug. Public endpoint.
func (h *Handler) listProductReviews(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.GetBySlug(r.Context(), pathParam(r, "slug"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			h.respond(w, http.StatusNotFound, map[string]string{"message": "No product found."})
			return
		}
		h.respondError(w, r, err)
		return
	}

	reviews, err := h.Reviews.ListByProduct(r.Context(), p.ID, true)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"reviews": newReviewBodies(reviews)})
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}

	var req reviewRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}

	rv, err := h.Reviews.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	rv.Title = req.Title
	rv.Rating = req.Rating
	rv.Review = req.Review
	rv.IsRecommended = req.IsRecommended
	rv.Status = review.StatusWaiting
	if err := h.Reviews.Update(r.Context(), rv); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) approveReview(w http.ResponseWriter, r *http.Request) {
	h.setReviewStatus(w, r, review.StatusApproved)
}

func (h *Handler) rejectReview(w http.ResponseWriter, r *http.Request) {
	h.setReviewStatus(w, r, review.StatusRejected)
}

func (h *Handler) setReviewStatus(w http.ResponseWriter, r *http.Request, status review.Status) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	rv, err := h.Reviews.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	rv.Status = status
	if err := h.Reviews.Update(r.Context(), rv); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.Reviews.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}
