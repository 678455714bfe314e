// Package handler exposes the REST surface of the storefront. Handlers
// decode typed request DTOs, delegate to domain services and
// repositories, and map results and errors onto the exact wire contract
// the storefront clients assert on.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mercatus-io/storefront/internal/auth"
	"github.com/mercatus-io/storefront/internal/domain/address"
	"github.com/mercatus-io/storefront/internal/domain/brand"
	"github.com/mercatus-io/storefront/internal/domain/cart"
	"github.com/mercatus-io/storefront/internal/domain/catalog"
	"github.com/mercatus-io/storefront/internal/domain/category"
	"github.com/mercatus-io/storefront/internal/domain/merchant"
	"github.com/mercatus-io/storefront/internal/domain/order"
	"github.com/mercatus-io/storefront/internal/domain/pricing"
	"github.com/mercatus-io/storefront/internal/domain/product"
	"github.com/mercatus-io/storefront/internal/domain/review"
	"github.com/mercatus-io/storefront/internal/domain/user"
	"github.com/mercatus-io/storefront/internal/domain/wishlist"
	"github.com/mercatus-io/storefront/internal/mail"
)

// genericError is the uniform failure body. Malformed ids, validation
// fallthroughs and unexpected dependency errors are deliberately
// indistinguishable to the client.
const genericError = "Your request could not be processed. Please try again."

// Deps carries everything the handler needs. All fields are required.
type Deps struct {
	Tokens     *auth.Tokens
	Users      user.Repository
	Products   product.Repository
	Brands     brand.Repository
	Categories category.Repository
	Merchants  merchant.Repository
	Reviews    review.Repository
	Addresses  address.Repository
	Wishlists  wishlist.Repository
	Carts      *cart.Service
	Orders     *order.Service
	Catalog    *catalog.Service
	Pricing    *pricing.Calculator
	Mailer     mail.Sender
}

// Handler implements the REST API, delegating business logic to the
// injected domain services and repositories.
type Handler struct {
	Deps

	validate *validator.Validate
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		Deps:     deps,
		validate: validator.New(),
	}
}

// Routes assembles the /api router. Public catalog reads stay open;
// everything else sits behind the bearer-token middleware, with
// admin and merchant gates on the management routes.
func (h *Handler) Routes() chi.Router {
	authed := auth.Require(h.Tokens)
	adminOnly := auth.RequireRole(user.RoleAdmin)
	sellers := auth.RequireRole(user.RoleAdmin, user.RoleMerchant)

	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/register", h.register)
	})

	r.Route("/user", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", h.getProfile)
		r.Put("/", h.updateProfile)
	})

	r.Route("/product", func(r chi.Router) {
		r.Get("/list", h.listProducts)
		r.Get("/list/search/{name}", h.searchProducts)
		r.Get("/item/{slug}", h.getProductBySlug)
		r.Group(func(r chi.Router) {
			r.Use(authed, sellers)
			r.Post("/add", h.addProduct)
			r.Get("/{id}", h.getProduct)
			r.Put("/{id}", h.updateProduct)
			r.Put("/{id}/active", h.updateProductActive)
			r.Delete("/delete/{id}", h.deleteProduct)
		})
	})

	r.Route("/brand", func(r chi.Router) {
		r.Get("/list", h.listBrands)
		r.Group(func(r chi.Router) {
			r.Use(authed, sellers)
			r.Post("/add", h.addBrand)
			r.Get("/{id}", h.getBrand)
			r.Put("/{id}", h.updateBrand)
			r.Put("/{id}/active", h.updateBrandActive)
			r.Delete("/delete/{id}", h.deleteBrand)
		})
	})

	r.Route("/category", func(r chi.Router) {
		r.Get("/list", h.listCategories)
		r.Group(func(r chi.Router) {
			r.Use(authed, adminOnly)
			r.Post("/add", h.addCategory)
			r.Get("/{id}", h.getCategory)
			r.Put("/{id}", h.updateCategory)
			r.Put("/{id}/active", h.updateCategoryActive)
			r.Delete("/delete/{id}", h.deleteCategory)
		})
	})

	r.Route("/merchant", func(r chi.Router) {
		r.Post("/add", h.addMerchant)
		r.Group(func(r chi.Router) {
			r.Use(authed, adminOnly)
			r.Get("/list", h.listMerchants)
			r.Put("/approve/{id}", h.approveMerchant)
			r.Put("/reject/{id}", h.rejectMerchant)
			r.Delete("/delete/{id}", h.deleteMerchant)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(authed)
		r.Post("/add", h.addCart)
		r.Post("/add/{cartId}", h.addCartItem)
		r.Delete("/delete/{cartId}", h.deleteCart)
		r.Delete("/delete/{cartId}/{productId}", h.removeCartItem)
	})

	r.Route("/order", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", h.listOrders)
		r.Post("/add", h.placeOrder)
		r.Get("/search", h.searchOrders)
		r.Get("/me", h.listMyOrders)
		r.Get("/{orderId}", h.getOrder)
		r.Delete("/cancel/{orderId}", h.cancelOrder)
		r.Put("/status/item/{itemId}", h.updateItemStatus)
	})

	r.Route("/review", func(r chi.Router) {
		r.Get("/{slug}", h.listProductReviews)
		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Post("/add", h.addReview)
			r.Get("/", h.listReviews)
			r.Put("/{id}", h.updateReview)
			r.Delete("/delete/{id}", h.deleteReview)
		})
		r.Group(func(r chi.Router) {
			r.Use(authed, adminOnly)
			r.Put("/approve/{id}", h.approveReview)
			r.Put("/reject/{id}", h.rejectReview)
		})
	})

	r.Route("/address", func(r chi.Router) {
		r.Use(authed)
		r.Post("/add", h.addAddress)
		r.Get("/", h.listAddresses)
		r.Get("/{id}", h.getAddress)
		r.Put("/{id}", h.updateAddress)
		r.Delete("/delete/{id}", h.deleteAddress)
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", h.addToWishlist)
		r.Get("/", h.listWishlist)
		r.Delete("/{productId}", h.removeFromWishlist)
	})

	r.Post("/newsletter/subscribe", h.subscribeNewsletter)
	r.Post("/contact/add", h.addContact)

	return r
}

// --- Response plumbing ---

func (h *Handler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError translates a domain error into the wire contract: specific
// 404 bodies for visibility failures, a specific validation message when
// one exists, and the uniform generic 400 body for everything else. No
// error escapes as a 500.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var orderNF *order.NotFoundError
	if errors.As(err, &orderNF) {
		h.respond(w, http.StatusNotFound, map[string]string{
			"message": fmt.Sprintf("Cannot find order with the id: %s.", orderNF.ID),
		})
		return
	}

	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	h.respondGeneric(w)
}

func (h *Handler) respondGeneric(w http.ResponseWriter) {
	h.respond(w, http.StatusBadRequest, map[string]string{"error": genericError})
}

// respondMessage sends a 400 with a route-specific validation message.
func (h *Handler) respondMessage(w http.ResponseWriter, msg string) {
	h.respond(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return nil
}

// pathID parses a uuid path parameter. A malformed id is reported exactly
// like an internal error, per the established contract.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func identity(r *http.Request) user.Identity {
	id, _ := auth.IdentityFromContext(r.Context())
	return id
}
