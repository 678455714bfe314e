package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercatus-io/storefront/internal/domain/cart"
	"github.com/mercatus-io/storefront/internal/domain/pricing"
	"github.com/mercatus-io/storefront/internal/domain/product"
	"github.com/mercatus-io/storefront/internal/domain/user"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	byID    map[uuid.UUID]*Order
	getErr  error
	deleted []uuid.UUID
}

func newOrderRepo(orders ...*Order) *mockOrderRepo {
	byID := make(map[uuid.UUID]*Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	return &mockOrderRepo{byID: byID}
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	m.byID[o.ID] = o
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) List(_ context.Context, limit, offset int) ([]Order, error) {
	return m.page(func(*Order) bool { return true }, limit, offset), nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]Order, error) {
	return m.page(func(o *Order) bool { return o.UserID == userID }, limit, offset), nil
}

func (m *mockOrderRepo) page(match func(*Order) bool, limit, offset int) []Order {
	all := make([]Order, 0, len(m.byID))
	for _, o := range m.byID {
		if match(o) {
			all = append(all, *o)
		}
	}
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all
}

func (m *mockOrderRepo) Count(_ context.Context) (int, error) {
	return len(m.byID), nil
}

func (m *mockOrderRepo) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for _, o := range m.byID {
		if o.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *mockOrderRepo) UpdateTotals(_ context.Context, id uuid.UUID, totals pricing.Totals) error {
	o, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	o.applyTotals(totals)
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCartRepo struct {
	byID      map[uuid.UUID]*cart.Cart
	updateErr error
}

func newCartRepo(carts ...*cart.Cart) *mockCartRepo {
	byID := make(map[uuid.UUID]*cart.Cart, len(carts))
	for _, c := range carts {
		byID[c.ID] = c
	}
	return &mockCartRepo{byID: byID}
}

func (m *mockCartRepo) Create(_ context.Context, c *cart.Cart) error {
	m.byID[c.ID] = c
	return nil
}

func (m *mockCartRepo) GetByID(_ context.Context, id uuid.UUID) (*cart.Cart, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, cart.ErrNotFound
	}
	return c, nil
}

func (m *mockCartRepo) FindByItemID(_ context.Context, itemID uuid.UUID) (*cart.Cart, error) {
	for _, c := range m.byID {
		if c.FindItem(itemID) != nil {
			return c, nil
		}
	}
	return nil, cart.ErrNotFound
}

func (m *mockCartRepo) AddItem(_ context.Context, cartID uuid.UUID, item cart.Item) error {
	c, ok := m.byID[cartID]
	if !ok {
		return cart.ErrNotFound
	}
	c.Items = append(c.Items, item)
	return nil
}

func (m *mockCartRepo) RemoveItem(_ context.Context, cartID, itemID uuid.UUID) error {
	c, ok := m.byID[cartID]
	if !ok {
		return cart.ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return cart.ErrItemNotFound
}

func (m *mockCartRepo) Update(_ context.Context, c *cart.Cart) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.byID[c.ID] = c
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return cart.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockProductRepo struct {
	product.Repository

	restocked map[uuid.UUID]int
}

func newProductRepo() *mockProductRepo {
	return &mockProductRepo{restocked: make(map[uuid.UUID]int)}
}

func (m *mockProductRepo) AdjustQuantity(_ context.Context, id uuid.UUID, delta int) error {
	m.restocked[id] += delta
	return nil
}

// --- Helpers ---

var testRate = decimal.NewFromInt(8)

type fixture struct {
	svc      *Service
	orders   *mockOrderRepo
	carts    *mockCartRepo
	products *mockProductRepo
	calc     *pricing.Calculator
}

func newFixture(orders *mockOrderRepo, carts *mockCartRepo) *fixture {
	products := newProductRepo()
	calc := pricing.NewCalculator(testRate)
	return &fixture{
		svc:      NewService(orders, carts, products, calc),
		orders:   orders,
		carts:    carts,
		products: products,
		calc:     calc,
	}
}

func member(id uuid.UUID) user.Identity {
	return user.Identity{ID: id, Role: user.RoleMember}
}

func admin() user.Identity {
	return user.Identity{ID: uuid.New(), Role: user.RoleAdmin}
}

func testItem(price int64, qty int) cart.Item {
	return cart.Item{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Price:     decimal.NewFromInt(price),
		Taxable:   true,
		Quantity:  qty,
		Status:    cart.StatusProcessing,
	}
}

func testCart(owner uuid.UUID, items ...cart.Item) *cart.Cart {
	calc := pricing.NewCalculator(testRate)
	return &cart.Cart{
		ID:     uuid.New(),
		UserID: owner,
		Items:  calc.SalesTax(items),
	}
}

func testOrder(owner uuid.UUID, c *cart.Cart) *Order {
	return &Order{
		ID:     uuid.New(),
		UserID: owner,
		CartID: c.ID,
	}
}

// --- Tests ---

func TestPlace(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(10, 1))
	f := newFixture(newOrderRepo(), newCartRepo(c))

	o, err := f.svc.Place(context.Background(), member(owner), c.ID, decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.Equal(t, owner, o.UserID)
	assert.Equal(t, c.ID, o.CartID)
	assert.True(t, decimal.NewFromInt(10).Equal(o.Total))
	assert.Len(t, f.orders.byID, 1)
}

func TestPlace_MissingCartID(t *testing.T) {
	f := newFixture(newOrderRepo(), newCartRepo())

	_, err := f.svc.Place(context.Background(), member(uuid.New()), uuid.Nil, decimal.Zero)
	require.ErrorIs(t, err, ErrCartRequired)
}

func TestPlace_UnknownCart(t *testing.T) {
	f := newFixture(newOrderRepo(), newCartRepo())

	_, err := f.svc.Place(context.Background(), member(uuid.New()), uuid.New(), decimal.Zero)
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestPlace_StoresRecomputedTotals(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(100, 10))
	f := newFixture(newOrderRepo(), newCartRepo(c))

	// Client-supplied total diverges from the engine's answer; the engine wins.
	o, err := f.svc.Place(context.Background(), member(owner), c.ID, decimal.NewFromInt(1))
	require.NoError(t, err)

	want := f.calc.OrderTotals(c.Items)
	assert.True(t, want.Total.Equal(o.Total))
	assert.True(t, want.TotalTax.Equal(o.TotalTax))
	assert.True(t, want.TotalWithTax.Equal(o.TotalWithTax))
}

func TestGet_EnrichesTotals(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(100, 10), testItem(50, 2))
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	got, err := f.svc.Get(context.Background(), member(owner), o.ID)
	require.NoError(t, err)

	want := f.calc.OrderTotals(c.Items)
	assert.True(t, want.Total.Equal(got.Total))
	assert.True(t, want.TotalWithTax.Equal(got.TotalWithTax))
	assert.Len(t, got.Items, 2)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(newOrderRepo(), newCartRepo())

	id := uuid.New()
	_, err := f.svc.Get(context.Background(), member(uuid.New()), id)

	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, id, nfErr.ID)
}

func TestGet_OwnershipIsolation(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(10, 1))
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	// A different member gets the same not-found shape, not the order.
	_, err := f.svc.Get(context.Background(), member(uuid.New()), o.ID)
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)

	// An admin sees it fine.
	_, err = f.svc.Get(context.Background(), admin(), o.ID)
	require.NoError(t, err)
}

func TestGet_MissingCartPassthrough(t *testing.T) {
	owner := uuid.New()
	o := &Order{ID: uuid.New(), UserID: owner, CartID: uuid.New(), Total: decimal.NewFromInt(10)}
	f := newFixture(newOrderRepo(o), newCartRepo())

	got, err := f.svc.Get(context.Background(), member(owner), o.ID)
	require.NoError(t, err)

	// No reachable cart snapshot: the order comes back unchanged.
	assert.True(t, decimal.NewFromInt(10).Equal(got.Total))
	assert.Nil(t, got.Items)
}

func TestGet_Idempotent(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(100, 10))
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	first, err := f.svc.Get(context.Background(), member(owner), o.ID)
	require.NoError(t, err)
	second, err := f.svc.Get(context.Background(), member(owner), o.ID)
	require.NoError(t, err)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.TotalTax.Equal(second.TotalTax))
	assert.True(t, first.TotalWithTax.Equal(second.TotalWithTax))
}

func TestSearch_InvalidQuery(t *testing.T) {
	f := newFixture(newOrderRepo(), newCartRepo())

	orders, err := f.svc.Search(context.Background(), member(uuid.New()), "invalidId")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestSearch_OwnerAndAdmin(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(10, 1))
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	orders, err := f.svc.Search(context.Background(), member(owner), o.ID.String())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)

	orders, err = f.svc.Search(context.Background(), admin(), o.ID.String())
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestSearch_ForeignOrderHidden(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(10, 1))
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	orders, err := f.svc.Search(context.Background(), member(uuid.New()), o.ID.String())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestSearch_RepoError(t *testing.T) {
	f := newFixture(newOrderRepo(), newCartRepo())
	f.orders.getErr = errors.New("db down")

	_, err := f.svc.Search(context.Background(), admin(), uuid.New().String())
	require.Error(t, err)
}

func TestListMine_Pagination(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(10, 1))
	repo := newOrderRepo()
	for range 15 {
		o := &Order{ID: uuid.New(), UserID: owner, CartID: c.ID}
		repo.byID[o.ID] = o
	}
	f := newFixture(repo, newCartRepo(c))

	page, err := f.svc.ListMine(context.Background(), member(owner), 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 10)
	assert.Equal(t, 15, page.Count)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)

	page, err = f.svc.ListMine(context.Background(), member(owner), 2, 10)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 5)
	assert.Equal(t, 2, page.CurrentPage)
}

func TestListMine_Defaults(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(10, 1))
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	page, err := f.svc.ListMine(context.Background(), member(owner), 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestList_MemberScopedToOwn(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(10, 1))
	mine := testOrder(owner, c)
	foreign := testOrder(uuid.New(), c)
	f := newFixture(newOrderRepo(mine, foreign), newCartRepo(c))

	page, err := f.svc.List(context.Background(), member(owner), 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, mine.ID, page.Orders[0].ID)

	page, err = f.svc.List(context.Background(), admin(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
}

func TestCancel(t *testing.T) {
	owner := uuid.New()
	item := testItem(10, 3)
	c := testCart(owner, item)
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	err := f.svc.Cancel(context.Background(), member(owner), o.ID)
	require.NoError(t, err)

	_, err = f.orders.GetByID(context.Background(), o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.carts.GetByID(context.Background(), c.ID)
	assert.ErrorIs(t, err, cart.ErrNotFound)

	// live items went back on the shelf
	assert.Equal(t, 3, f.products.restocked[item.ProductID])
}

func TestCancel_Unknown(t *testing.T) {
	f := newFixture(newOrderRepo(), newCartRepo())

	err := f.svc.Cancel(context.Background(), member(uuid.New()), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCancel_ForeignOrder(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(10, 1))
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	err := f.svc.Cancel(context.Background(), member(uuid.New()), o.ID)
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestUpdateItemStatus_PartialCancellation(t *testing.T) {
	owner := uuid.New()
	kept := testItem(100, 2)
	dropped := testItem(10, 1)
	c := testCart(owner, kept, dropped)
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	res, err := f.svc.UpdateItemStatus(context.Background(), c.Items[1].ID, o.ID, c.ID, cart.StatusCancelled)
	require.NoError(t, err)

	assert.True(t, res.ItemCancelled)
	assert.False(t, res.OrderCancelled)

	// order survives with totals recomputed over the surviving item only
	stored, err := f.orders.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	want := f.calc.OrderTotals([]cart.Item{c.Items[0]})
	assert.True(t, want.Total.Equal(stored.Total), "want %s, got %s", want.Total, stored.Total)
	assert.True(t, want.TotalTax.Equal(stored.TotalTax))
	assert.True(t, want.TotalWithTax.Equal(stored.TotalWithTax))

	// the cancelled line's stock was returned
	assert.Equal(t, 1, f.products.restocked[dropped.ProductID])
}

func TestUpdateItemStatus_AllCancelledCascade(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(10, 1), testItem(100, 1))
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	res, err := f.svc.UpdateItemStatus(context.Background(), c.Items[0].ID, o.ID, c.ID, cart.StatusCancelled)
	require.NoError(t, err)
	assert.True(t, res.ItemCancelled)

	res, err = f.svc.UpdateItemStatus(context.Background(), c.Items[1].ID, o.ID, c.ID, cart.StatusCancelled)
	require.NoError(t, err)
	assert.True(t, res.OrderCancelled)

	// order and cart are gone
	_, err = f.orders.GetByID(context.Background(), o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.carts.GetByID(context.Background(), c.ID)
	assert.ErrorIs(t, err, cart.ErrNotFound)
}

func TestUpdateItemStatus_CascadeAnyOrder(t *testing.T) {
	// Cancelling N items in any order always ends with the order deleted.
	for _, seq := range [][]int{{0, 1, 2}, {2, 0, 1}, {1, 2, 0}} {
		owner := uuid.New()
		c := testCart(owner, testItem(10, 1), testItem(20, 1), testItem(30, 1))
		o := testOrder(owner, c)
		f := newFixture(newOrderRepo(o), newCartRepo(c))

		var last *StatusUpdate
		for _, idx := range seq {
			res, err := f.svc.UpdateItemStatus(context.Background(), c.Items[idx].ID, o.ID, c.ID, cart.StatusCancelled)
			require.NoError(t, err)
			last = res
		}

		assert.True(t, last.OrderCancelled, "seq %v", seq)
		_, err := f.orders.GetByID(context.Background(), o.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestUpdateItemStatus_DefaultsToCancelled(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(10, 1))
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	res, err := f.svc.UpdateItemStatus(context.Background(), c.Items[0].ID, o.ID, c.ID, "")
	require.NoError(t, err)

	// sole item cancelled by default => the whole order went with it
	assert.True(t, res.OrderCancelled)
}

func TestUpdateItemStatus_Reactivate(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(100, 2))
	o := testOrder(owner, c)
	f := newFixture(newOrderRepo(o), newCartRepo(c))

	res, err := f.svc.UpdateItemStatus(context.Background(), c.Items[0].ID, o.ID, c.ID, cart.StatusProcessing)
	require.NoError(t, err)

	assert.False(t, res.ItemCancelled)
	assert.False(t, res.OrderCancelled)

	// recomputation ran and persisted
	stored, err := f.orders.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	want := f.calc.OrderTotals(c.Items)
	assert.True(t, want.Total.Equal(stored.Total))
}

func TestUpdateItemStatus_UnknownItem(t *testing.T) {
	f := newFixture(newOrderRepo(), newCartRepo())

	_, err := f.svc.UpdateItemStatus(context.Background(), uuid.New(), uuid.New(), uuid.New(), cart.StatusCancelled)
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestUpdateItemStatus_VersionConflict(t *testing.T) {
	owner := uuid.New()
	c := testCart(owner, testItem(10, 1))
	o := testOrder(owner, c)
	carts := newCartRepo(c)
	carts.updateErr = cart.ErrConflict
	f := newFixture(newOrderRepo(o), carts)

	_, err := f.svc.UpdateItemStatus(context.Background(), c.Items[0].ID, o.ID, c.ID, cart.StatusCancelled)
	require.ErrorIs(t, err, cart.ErrConflict)
}
