package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mercatus-io/storefront/internal/domain/product"
	"github.com/mercatus-io/storefront/internal/domain/user"
)

// checkout seeds a cart through the API and places an order for it,
// returning both ids.
func checkout(t *testing.T, env *testEnv, token string, products []map[string]any) (orderID, cartID string) {
	t.Helper()

	status, body := env.do(t, http.MethodPost, "/api/cart/add", token, map[string]any{
		"products": products,
	})
	require.Equal(t, http.StatusOK, status)
	cartID = body["cartId"].(string)

	status, body = env.do(t, http.MethodPost, "/api/order/add", token, map[string]any{
		"cartId": cartID,
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Your order has been placed successfully!", body["message"])

	orderBody := body["order"].(map[string]any)
	return orderBody["id"].(string), cartID
}

func TestPlaceOrderMissingCart(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "buyer@test.com", user.RoleMember)

	status, body := env.do(t, http.MethodPost, "/api/order/add", token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Your request could not be processed. Please try again.", body["error"])
}

func TestPlaceOrderUnknownCart(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "buyer@test.com", user.RoleMember)

	status, body := env.do(t, http.MethodPost, "/api/order/add", token, map[string]any{
		"cartId": uuid.New().String(),
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Your request could not be processed. Please try again.", body["error"])
}

func TestGetOrderRecomputedTotals(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "buyer@test.com", user.RoleMember)

	orderID, _ := checkout(t, env, token, []map[string]any{
		sampleItem(uuid.New(), "sku-1", 100, 2),
	})

	status, body := env.do(t, http.MethodGet, "/api/order/"+orderID, token, nil)
	require.Equal(t, http.StatusOK, status)

	o := body["order"].(map[string]any)
	require.Equal(t, float64(200), o["total"])
	require.Equal(t, float64(1600), o["totalTax"])
	require.Equal(t, float64(1800), o["totalWithTax"])
	require.Len(t, o["products"].([]any), 1)
}

func TestGetOrderNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "buyer@test.com", user.RoleMember)

	missing := uuid.New()
	status, body := env.do(t, http.MethodGet, "/api/order/"+missing.String(), token, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, fmt.Sprintf("Cannot find order with the id: %s.", missing), body["message"])
}

func TestGetOrderForeignHidden(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.signup(t, "owner@test.com", user.RoleMember)
	_, otherToken := env.signup(t, "other@test.com", user.RoleMember)

	orderID, _ := checkout(t, env, ownerToken, []map[string]any{
		sampleItem(uuid.New(), "sku-1", 100, 1),
	})

	status, body := env.do(t, http.MethodGet, "/api/order/"+orderID, otherToken, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, fmt.Sprintf("Cannot find order with the id: %s.", orderID), body["message"])
}

func TestGetOrderMalformedID(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "buyer@test.com", user.RoleMember)

	status, body := env.do(t, http.MethodGet, "/api/order/not-a-uuid", token, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Your request could not be processed. Please try again.", body["error"])
}

func TestSearchOrders(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "buyer@test.com", user.RoleMember)

	orderID, _ := checkout(t, env, token, []map[string]any{
		sampleItem(uuid.New(), "sku-1", 100, 1),
	})

	status, body := env.do(t, http.MethodGet, "/api/order/search?search="+orderID, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["orders"].([]any), 1)

	status, body = env.do(t, http.MethodGet, "/api/order/search?search=garbage", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, body["orders"])
}

func TestListMyOrdersPagination(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "buyer@test.com", user.RoleMember)

	for i := 0; i < 12; i++ {
		checkout(t, env, token, []map[string]any{
			sampleItem(uuid.New(), fmt.Sprintf("sku-%d", i), 10, 1),
		})
	}

	status, body := env.do(t, http.MethodGet, "/api/order/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["orders"].([]any), 10)
	require.Equal(t, float64(12), body["count"])
	require.Equal(t, float64(2), body["totalPages"])
	require.Equal(t, float64(1), body["currentPage"])

	status, body = env.do(t, http.MethodGet, "/api/order/me?page=2", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["orders"].([]any), 2)
	require.Equal(t, float64(2), body["currentPage"])
}

func TestCancelOrderRestocks(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "buyer@test.com", user.RoleMember)

	p := &product.Product{ID: uuid.New(), SKU: "sku-1", Name: "Sample Product", Quantity: 5, IsActive: true}
	require.NoError(t, env.products.Create(context.Background(), p))

	orderID, cartID := checkout(t, env, token, []map[string]any{
		sampleItem(p.ID, "sku-1", 100, 3),
	})

	status, body := env.do(t, http.MethodDelete, "/api/order/cancel/"+orderID, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])

	restocked, err := env.products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, 8, restocked.Quantity)

	_, err = env.carts.GetByID(context.Background(), uuid.MustParse(cartID))
	require.Error(t, err)

	status, _ = env.do(t, http.MethodGet, "/api/order/"+orderID, token, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestUpdateItemStatusShipped(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "buyer@test.com", user.RoleMember)

	orderID, cartID := checkout(t, env, token, []map[string]any{
		sampleItem(uuid.New(), "sku-1", 100, 1),
	})
	stored, err := env.carts.GetByID(context.Background(), uuid.MustParse(cartID))
	require.NoError(t, err)

	path := "/api/order/status/item/" + stored.Items[0].ID.String()
	status, body := env.do(t, http.MethodPut, path, token, map[string]any{
		"orderId": orderID,
		"cartId":  cartID,
		"status":  "Shipped",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Item status has been updated successfully!", body["message"])
}

func TestUpdateItemStatusPartialCancel(t *testing.T) {
	env := newTestEnv(t)
	p := &product.Product{ID: uuid.New(), SKU: "sku-1", Name: "Sample Product", Quantity: 0, IsActive: true}
	require.NoError(t, env.products.Create(context.Background(), p))

	_, token := env.signup(t, "buyer@test.com", user.RoleMember)
	orderID, cartID := checkout(t, env, token, []map[string]any{
		sampleItem(p.ID, "sku-1", 100, 2),
		sampleItem(uuid.New(), "sku-2", 100, 1),
	})
	stored, err := env.carts.GetByID(context.Background(), uuid.MustParse(cartID))
	require.NoError(t, err)

	path := "/api/order/status/item/" + stored.Items[0].ID.String()
	status, body := env.do(t, http.MethodPut, path, token, map[string]any{
		"orderId": orderID,
		"cartId":  cartID,
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Item has been cancelled successfully!", body["message"])
	require.Nil(t, body["orderCancelled"])

	// Cancelled stock goes back on the shelf.
	restocked, err := env.products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, 2, restocked.Quantity)

	// Stored totals now cover only the surviving item.
	getStatus, getBody := env.do(t, http.MethodGet, "/api/order/"+orderID, token, nil)
	require.Equal(t, http.StatusOK, getStatus)
	o := getBody["order"].(map[string]any)
	require.Equal(t, float64(100), o["total"])
	require.Equal(t, float64(800), o["totalTax"])
}

func TestUpdateItemStatusCancelCascade(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "buyer@test.com", user.RoleMember)

	orderID, cartID := checkout(t, env, token, []map[string]any{
		sampleItem(uuid.New(), "sku-1", 100, 1),
	})
	stored, err := env.carts.GetByID(context.Background(), uuid.MustParse(cartID))
	require.NoError(t, err)

	path := "/api/order/status/item/" + stored.Items[0].ID.String()
	status, body := env.do(t, http.MethodPut, path, token, map[string]any{
		"orderId": orderID,
		"cartId":  cartID,
		"status":  "Cancelled",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.Equal(t, true, body["orderCancelled"])
	require.Equal(t, "Your order has been cancelled successfully", body["message"])

	_, err = env.carts.GetByID(context.Background(), uuid.MustParse(cartID))
	require.Error(t, err)
	getStatus, _ := env.do(t, http.MethodGet, "/api/order/"+orderID, token, nil)
	require.Equal(t, http.StatusNotFound, getStatus)
}

func TestUpdateItemStatusCancelCascadeAdminMessage(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "buyer@test.com", user.RoleMember)
	_, adminToken := env.signup(t, "admin@test.com", user.RoleAdmin)

	orderID, cartID := checkout(t, env, token, []map[string]any{
		sampleItem(uuid.New(), "sku-1", 100, 1),
	})
	stored, err := env.carts.GetByID(context.Background(), uuid.MustParse(cartID))
	require.NoError(t, err)

	path := "/api/order/status/item/" + stored.Items[0].ID.String()
	status, body := env.do(t, http.MethodPut, path, adminToken, map[string]any{
		"orderId": orderID,
		"cartId":  cartID,
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["orderCancelled"])
	require.Equal(t, "Order has been cancelled successfully", body["message"])
}

func TestListOrdersAdminSeesAll(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.signup(t, "alice@test.com", user.RoleMember)
	_, bobToken := env.signup(t, "bob@test.com", user.RoleMember)
	_, adminToken := env.signup(t, "admin@test.com", user.RoleAdmin)

	checkout(t, env, aliceToken, []map[string]any{sampleItem(uuid.New(), "sku-1", 10, 1)})
	checkout(t, env, bobToken, []map[string]any{sampleItem(uuid.New(), "sku-2", 10, 1)})

	status, body := env.do(t, http.MethodGet, "/api/order/", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["orders"].([]any), 2)

	status, body = env.do(t, http.MethodGet, "/api/order/", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["orders"].([]any), 1)
}
