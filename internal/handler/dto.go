package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercatus-io/storefront/internal/domain/address"
	"github.com/mercatus-io/storefront/internal/domain/brand"
	"github.com/mercatus-io/storefront/internal/domain/cart"
	"github.com/mercatus-io/storefront/internal/domain/category"
	"github.com/mercatus-io/storefront/internal/domain/merchant"
	"github.com/mercatus-io/storefront/internal/domain/order"
	"github.com/mercatus-io/storefront/internal/domain/product"
	"github.com/mercatus-io/storefront/internal/domain/review"
	"github.com/mercatus-io/storefront/internal/domain/user"
	"github.com/mercatus-io/storefront/internal/domain/wishlist"
)

// Monetary values cross the wire as floats. Internally everything is
// decimal; the conversion happens only at this boundary.

type userBody struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      user.Role `json:"role"`
}

func newUserBody(u *user.User) userBody {
	return userBody{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

type itemBody struct {
	ID            uuid.UUID       `json:"id"`
	Product       uuid.UUID       `json:"product"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	ImageURL      string          `json:"imageUrl"`
	Price         float64         `json:"price"`
	Taxable       bool            `json:"taxable"`
	Quantity      int             `json:"quantity"`
	Status        cart.ItemStatus `json:"status"`
	PurchasePrice float64         `json:"purchasePrice"`
	PriceWithTax  float64         `json:"priceWithTax"`
	TotalTax      float64         `json:"totalTax"`
	TotalPrice    float64         `json:"totalPrice"`
}

func newItemBody(it cart.Item) itemBody {
	return itemBody{
		ID:            it.ID,
		Product:       it.ProductID,
		SKU:           it.SKU,
		Name:          it.Name,
		Slug:          it.Slug,
		ImageURL:      it.ImageURL,
		Price:         it.Price.InexactFloat64(),
		Taxable:       it.Taxable,
		Quantity:      it.Quantity,
		Status:        it.Status,
		PurchasePrice: it.PurchasePrice.InexactFloat64(),
		PriceWithTax:  it.PriceWithTax.InexactFloat64(),
		TotalTax:      it.TotalTax.InexactFloat64(),
		TotalPrice:    it.TotalPrice.InexactFloat64(),
	}
}

func newItemBodies(items []cart.Item) []itemBody {
	out := make([]itemBody, len(items))
	for i, it := range items {
		out[i] = newItemBody(it)
	}
	return out
}

type orderBody struct {
	ID           uuid.UUID  `json:"id"`
	CartID       uuid.UUID  `json:"cartId"`
	User         uuid.UUID  `json:"user"`
	Total        float64    `json:"total"`
	TotalTax     float64    `json:"totalTax"`
	TotalWithTax float64    `json:"totalWithTax"`
	Products     []itemBody `json:"products"`
	Created      time.Time  `json:"created"`
}

func newOrderBody(o *order.Order) orderBody {
	return orderBody{
		ID:           o.ID,
		CartID:       o.CartID,
		User:         o.UserID,
		Total:        o.Total.InexactFloat64(),
		TotalTax:     o.TotalTax.InexactFloat64(),
		TotalWithTax: o.TotalWithTax.InexactFloat64(),
		Products:     newItemBodies(o.Items),
		Created:      o.Created,
	}
}

func newOrderBodies(orders []order.Order) []orderBody {
	out := make([]orderBody, len(orders))
	for i := range orders {
		out[i] = newOrderBody(&orders[i])
	}
	return out
}

type productBody struct {
	ID          uuid.UUID `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	ImageKey    string    `json:"imageKey"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Taxable     bool      `json:"taxable"`
	IsActive    bool      `json:"isActive"`
	Brand       uuid.UUID `json:"brand"`
	Merchant    uuid.UUID `json:"merchant"`
}

func newProductBody(p *product.Product) productBody {
	return productBody{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		ImageKey:    p.ImageKey,
		Quantity:    p.Quantity,
		Price:       p.Price.InexactFloat64(),
		Taxable:     p.Taxable,
		IsActive:    p.IsActive,
		Brand:       p.BrandID,
		Merchant:    p.MerchantID,
	}
}

func newProductBodies(products []product.Product) []productBody {
	out := make([]productBody, len(products))
	for i := range products {
		out[i] = newProductBody(&products[i])
	}
	return out
}

type brandBody struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
}

func newBrandBody(b *brand.Brand) brandBody {
	return brandBody{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		IsActive:    b.IsActive,
	}
}

func newBrandBodies(brands []brand.Brand) []brandBody {
	out := make([]brandBody, len(brands))
	for i := range brands {
		out[i] = newBrandBody(&brands[i])
	}
	return out
}

type categoryBody struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Products    []uuid.UUID `json:"products"`
	IsActive    bool        `json:"isActive"`
}

func newCategoryBody(c *category.Category) categoryBody {
	return categoryBody{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Products:    c.ProductIDs,
		IsActive:    c.IsActive,
	}
}

func newCategoryBodies(categories []category.Category) []categoryBody {
	out := make([]categoryBody, len(categories))
	for i := range categories {
		out[i] = newCategoryBody(&categories[i])
	}
	return out
}

type merchantBody struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber"`
	BrandName   string          `json:"brandName"`
	Business    string          `json:"business"`
	IsActive    bool            `json:"isActive"`
	Status      merchant.Status `json:"status"`
}

func newMerchantBody(m *merchant.Merchant) merchantBody {
	return merchantBody{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		BrandName:   m.BrandName,
		Business:    m.Business,
		IsActive:    m.IsActive,
		Status:      m.Status,
	}
}

func newMerchantBodies(merchants []merchant.Merchant) []merchantBody {
	out := make([]merchantBody, len(merchants))
	for i := range merchants {
		out[i] = newMerchantBody(&merchants[i])
	}
	return out
}

type reviewBody struct {
	ID            uuid.UUID     `json:"id"`
	Product       uuid.UUID     `json:"product"`
	User          uuid.UUID     `json:"user"`
	Title         string        `json:"title"`
	Rating        int           `json:"rating"`
	Review        string        `json:"review"`
	IsRecommended bool          `json:"isRecommended"`
	Status        review.Status `json:"status"`
}

func newReviewBody(rv *review.Review) reviewBody {
	return reviewBody{
		ID:            rv.ID,
		Product:       rv.ProductID,
		User:          rv.UserID,
		Title:         rv.Title,
		Rating:        rv.Rating,
		Review:        rv.Review,
		IsRecommended: rv.IsRecommended,
		Status:        rv.Status,
	}
}

func newReviewBodies(reviews []review.Review) []reviewBody {
	out := make([]reviewBody, len(reviews))
	for i := range reviews {
		out[i] = newReviewBody(&reviews[i])
	}
	return out
}

type addressBody struct {
	ID        uuid.UUID `json:"id"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	ZipCode   string    `json:"zipCode"`
	IsDefault bool      `json:"isDefault"`
}

func newAddressBody(a *address.Address) addressBody {
	return addressBody{
		ID:        a.ID,
		Address:   a.Address,
		City:      a.City,
		State:     a.State,
		Country:   a.Country,
		ZipCode:   a.ZipCode,
		IsDefault: a.IsDefault,
	}
}

func newAddressBodies(addresses []address.Address) []addressBody {
	out := make([]addressBody, len(addresses))
	for i := range addresses {
		out[i] = newAddressBody(&addresses[i])
	}
	return out
}

type wishlistBody struct {
	ID      uuid.UUID `json:"id"`
	User    uuid.UUID `json:"user"`
	Product uuid.UUID `json:"product"`
	IsLiked bool      `json:"isLiked"`
	Updated time.Time `json:"updated"`
}

func newWishlistBody(e wishlist.Entry) wishlistBody {
	return wishlistBody{
		ID:      e.ID,
		User:    e.UserID,
		Product: e.ProductID,
		IsLiked: e.IsLiked,
		Updated: e.Updated,
	}
}

func newWishlistBodies(entries []wishlist.Entry) []wishlistBody {
	out := make([]wishlistBody, len(entries))
	for i, e := range entries {
		out[i] = newWishlistBody(e)
	}
	return out
}
