package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatus-io/storefront/internal/domain/cart"
	"github.com/mercatus-io/storefront/internal/domain/order"
)

type placeOrderRequest struct {
	CartID string  `json:"cartId" validate:"required"`
	Total  float64 `json:"total"`
}

type itemStatusRequest struct {
	OrderID string          `json:"orderId" validate:"required"`
	CartID  string          `json:"cartId" validate:"required"`
	Status  cart.ItemStatus `json:"status"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		h.respondGeneric(w)
		return
	}

	o, err := h.Orders.Place(r.Context(), identity(r), cartID, decimal.NewFromFloat(req.Total))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Your order has been placed successfully!",
		"order":   map[string]any{"id": o.ID},
	})
}

func (h *Handler) searchOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.Search(r.Context(), identity(r), r.URL.Query().Get("search"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"orders": newOrderBodies(orders)})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	result, err := h.Orders.List(r.Context(), identity(r), page, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondPage(w, result)
}

func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	result, err := h.Orders.ListMine(r.Context(), identity(r), page, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondPage(w, result)
}

func (h *Handler) respondPage(w http.ResponseWriter, p *order.Page) {
	h.respond(w, http.StatusOK, map[string]any{
		"orders":      newOrderBodies(p.Orders),
		"totalPages":  p.TotalPages,
		"currentPage": p.CurrentPage,
		"count":       p.Count,
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	o, err := h.Orders.Get(r.Context(), identity(r), orderID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"order": newOrderBody(o)})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		h.respondGeneric(w)
		return
	}
	if err := h.Orders.Cancel(r.Context(), identity(r), orderID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) updateItemStatus(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		h.respondGeneric(w)
		return
	}

	var req itemStatusRequest
	if err := h.decode(r, &req); err != nil {
		h.respondGeneric(w)
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		h.respondGeneric(w)
		return
	}
	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		h.respondGeneric(w)
		return
	}

	result, err := h.Orders.UpdateItemStatus(r.Context(), itemID, orderID, cartID, req.Status)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	switch {
	case result.OrderCancelled:
		msg := "Your order has been cancelled successfully"
		if identity(r).IsAdmin() {
			msg = "Order has been cancelled successfully"
		}
		h.respond(w, http.StatusOK, map[string]any{
			"success":        true,
			"orderCancelled": true,
			"message":        msg,
		})
	case result.ItemCancelled:
		h.respond(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Item has been cancelled successfully!",
		})
	default:
		h.respond(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Item status has been updated successfully!",
		})
	}
}

// pagination reads ?page= and ?limit=, leaving normalization of
// out-of-range values to the order service.
func pagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}
