package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mercatus-io/storefront/internal/domain/user"
)

func sampleItem(productID uuid.UUID, sku string, price float64, qty int) map[string]any {
	return map[string]any{
		"product":  productID.String(),
		"sku":      sku,
		"name":     "Sample Product",
		"slug":     "sample-product",
		"price":    price,
		"taxable":  true,
		"quantity": qty,
	}
}

func TestAddCart(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "cart@test.com", user.RoleMember)

	status, body := env.do(t, http.MethodPost, "/api/cart/add", token, map[string]any{
		"products": []map[string]any{sampleItem(uuid.New(), "sku-1", 100, 2)},
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["cartId"])

	cartID, err := uuid.Parse(body["cartId"].(string))
	require.NoError(t, err)

	stored, err := env.carts.GetByID(context.Background(), cartID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	require.Equal(t, "Processing", string(stored.Items[0].Status))
	require.True(t, stored.Items[0].TotalTax.Equal(decimal.NewFromInt(1600)),
		"got %s", stored.Items[0].TotalTax)
}

func TestAddCartEmptyProducts(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "cart@test.com", user.RoleMember)

	status, body := env.do(t, http.MethodPost, "/api/cart/add", token, map[string]any{
		"products": []map[string]any{},
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Your request could not be processed. Please try again.", body["error"])
}

func TestAddCartItemDuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "cart@test.com", user.RoleMember)

	_, body := env.do(t, http.MethodPost, "/api/cart/add", token, map[string]any{
		"products": []map[string]any{sampleItem(uuid.New(), "sku-1", 50, 1)},
	})
	cartID := body["cartId"].(string)

	status, body := env.do(t, http.MethodPost, "/api/cart/add/"+cartID, token, map[string]any{
		"product": sampleItem(uuid.New(), "sku-1", 50, 1),
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])

	stored, err := env.carts.GetByID(context.Background(), uuid.MustParse(cartID))
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	require.Equal(t, stored.Items[0].SKU, stored.Items[1].SKU)
	require.NotEqual(t, stored.Items[0].ID, stored.Items[1].ID)
}

func TestRemoveCartItemLeavesSiblings(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "cart@test.com", user.RoleMember)

	_, body := env.do(t, http.MethodPost, "/api/cart/add", token, map[string]any{
		"products": []map[string]any{
			sampleItem(uuid.New(), "sku-1", 50, 1),
			sampleItem(uuid.New(), "sku-1", 50, 1),
		},
	})
	cartID := uuid.MustParse(body["cartId"].(string))

	stored, err := env.carts.GetByID(context.Background(), cartID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)

	path := fmt.Sprintf("/api/cart/delete/%s/%s", cartID, stored.Items[0].ID)
	status, body := env.do(t, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])

	stored, err = env.carts.GetByID(context.Background(), cartID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
}

func TestDeleteCart(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "cart@test.com", user.RoleMember)

	_, body := env.do(t, http.MethodPost, "/api/cart/add", token, map[string]any{
		"products": []map[string]any{sampleItem(uuid.New(), "sku-1", 50, 1)},
	})
	cartID := body["cartId"].(string)

	status, body := env.do(t, http.MethodDelete, "/api/cart/delete/"+cartID, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])

	status, body = env.do(t, http.MethodDelete, "/api/cart/delete/"+cartID, token, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Your request could not be processed. Please try again.", body["error"])
}

func TestDeleteCartMalformedID(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "cart@test.com", user.RoleMember)

	status, body := env.do(t, http.MethodDelete, "/api/cart/delete/not-a-uuid", token, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Your request could not be processed. Please try again.", body["error"])
}
