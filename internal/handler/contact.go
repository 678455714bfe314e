package handler

import (
	"net/http"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Message string `json:"message"`
}

type newsletterRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

func (h *Handler) addContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if req.Name == "" || req.Email == "" {
		h.respondMessage(w, "You must enter your name and email.")
		return
	}
	if req.Message == "" {
		h.respondMessage(w, "You must enter a message.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondGeneric(w)
		return
	}

	if err := h.Mailer.Send(r.Context(), req.Email, "contact", map[string]string{
		"name":    req.Name,
		"message": req.Message,
	}); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "We received your message, we will reach you on your email address soon!",
	})
}

func (h *Handler) subscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if req.Email == "" {
		h.respondMessage(w, "You must enter an email address.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondGeneric(w)
		return
	}

	if err := h.Mailer.Send(r.Context(), req.Email, "newsletter-subscription", nil); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "You have successfully subscribed to the newsletter",
	})
}
