package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mercatus-io/storefront/internal/domain/address"
)

type addressRequest struct {
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Country   string `json:"country" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
	IsDefault bool   `json:"isDefault"`
}

func (h *Handler) addAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondGeneric(w)
		return
	}

	a := &address.Address{
		ID:        uuid.New(),
		UserID:    identity(r).ID,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Country:   req.Country,
		ZipCode:   req.ZipCode,
		IsDefault: req.IsDefault,
	}
	if err := h.Addresses.Create(r.Context(), a); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Address has been added successfully!",
		"address": newAddressBody(a),
	})
}

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.Addresses.ListByUser(r.Context(), identity(r).ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"addresses": newAddressBodies(addresses)})
}

// getAddress resolves an address by id, scoped to the caller. A foreign
// address is indistinguishable from an absent one.
func (h *Handler) getAddress(w http.ResponseWriter, r *http.Request) {
	a, ok := h.ownAddress(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"address": newAddressBody(a)})
}

func (h *Handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	a, ok := h.ownAddress(w, r)
	if !ok {
		return
	}

	var req addressRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}

	a.Address = req.Address
	a.City = req.City
	a.State = req.State
	a.Country = req.Country
	a.ZipCode = req.ZipCode
	a.IsDefault = req.IsDefault
	if err := h.Addresses.Update(r.Context(), a); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Address has been updated successfully!",
	})
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	a, ok := h.ownAddress(w, r)
	if !ok {
		return
	}
	if err := h.Addresses.Delete(r.Context(), a.ID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) ownAddress(w http.ResponseWriter, r *http.Request) (*address.Address, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondGeneric(w)
		return nil, false
	}
	a, err := h.Addresses.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return nil, false
	}
	if a.UserID != identity(r).ID {
		h.respondError(w, r, address.ErrNotFound)
		return nil, false
	}
	return a, true
}
