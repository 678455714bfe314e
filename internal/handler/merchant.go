package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mercatus-io/storefront/internal/domain/merchant"
)

type merchantRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	BrandName   string `json:"brandName"`
	Business    string `json:"business"`
}

// addMerchant accepts a seller application. The merchant stays inactive
// until an admin approves it.
func (h *Handler) addMerchant(w http.ResponseWriter, r *http.Request) {
	var req merchantRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if req.Name == "" || req.Email == "" {
		h.respondMessage(w, "You must enter your name and email.")
		return
	}
	if req.Business == "" {
		h.respondMessage(w, "You must enter a business description.")
		return
	}

	m := &merchant.Merchant{
		ID:          uuid.New(),
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		BrandName:   req.BrandName,
		Business:    req.Business,
		Status:      merchant.StatusWaiting,
	}
	if err := h.Merchants.Create(r.Context(), m); err != nil {
		h.respondError(w, r, err)
		return
	}

	_ = h.Mailer.Send(r.Context(), m.Email, "merchant-application", map[string]string{
		"name": m.Name,
	})

	h.respond(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  fmt.Sprintf("We received your request! we will reach you on your phone number %s!", m.PhoneNumber),
		"merchant": newMerchantBody(m),
	})
}

func (h *Handler) listMerchants(w http.ResponseWriter, r *http.Request) {
	merchants, err := h.Merchants.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"merchants": newMerchantBodies(merchants)})
}

func (h *Handler) approveMerchant(w http.ResponseWriter, r *http.Request) {
	h.setMerchantStatus(w, r, merchant.StatusApproved)
}

func (h *Handler) rejectMerchant(w http.ResponseWriter, r *http.Request) {
	h.setMerchantStatus(w, r, merchant.StatusRejected)
}

func (h *Handler) setMerchantStatus(w http.ResponseWriter, r *http.Request, status merchant.Status) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	m, err := h.Merchants.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	m.Status = status
	m.IsActive = status == merchant.StatusApproved
	if err := h.Merchants.Update(r.Context(), m); err != nil {
		h.respondError(w, r, err)
		return
	}

	if status == merchant.StatusApproved {
		_ = h.Mailer.Send(r.Context(), m.Email, "merchant-approved", map[string]string{
			"name": m.Name,
		})
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) deleteMerchant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.Merchants.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}
