package handler

import (
	"net/http"
)

type updateProfileRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.GetByID(r.Context(), identity(r).ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"user": newUserBody(u)})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondGeneric(w)
		return
	}

	u, err := h.Users.GetByID(r.Context(), identity(r).ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.PhoneNumber = req.PhoneNumber
	if err := h.Users.Update(r.Context(), u); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Your profile is successfully updated!",
		"user":    newUserBody(u),
	})
}
