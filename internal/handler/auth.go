package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercatus-io/storefront/internal/domain/user"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if req.Email == "" {
		h.respondMessage(w, "You must enter an email address.")
		return
	}
	if req.Password == "" {
		h.respondMessage(w, "You must enter a password.")
		return
	}

	u, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			h.respondMessage(w, "No user found for this email address.")
			return
		}
		h.respondError(w, r, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		h.respondMessage(w, "Password Incorrect")
		return
	}

	token, err := h.Tokens.Issue(u)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    newUserBody(u),
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	if req.Email == "" {
		h.respondMessage(w, "You must enter an email address.")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		h.respondMessage(w, "You must enter your full name.")
		return
	}
	if req.Password == "" {
		h.respondMessage(w, "You must enter a password.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondGeneric(w)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Provider:     "email",
		Role:         user.RoleMember,
	}
	if err := h.Users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			h.respondMessage(w, "That email address is already in use.")
			return
		}
		h.respondError(w, r, err)
		return
	}

	token, err := h.Tokens.Issue(u)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	_ = h.Mailer.Send(r.Context(), u.Email, "signup", map[string]string{
		"firstName": u.FirstName,
	})

	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    newUserBody(u),
	})
}
