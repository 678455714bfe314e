package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercatus-io/storefront/internal/domain/cart"
)

var testRate = decimal.NewFromInt(8)

func taxableItem(price int64, qty int) cart.Item {
	return cart.Item{
		Price:    decimal.NewFromInt(price),
		Taxable:  true,
		Quantity: qty,
		Status:   cart.StatusProcessing,
	}
}

func untaxableItem(price int64, qty int) cart.Item {
	item := taxableItem(price, qty)
	item.Taxable = false
	return item
}

// The canonical scenario: one taxable item, one non-taxable item, and one
// cancelled taxable item. Tax comes only from the first, total from the
// first two, and the cancelled line contributes nothing.
func mixedOrderItems(c *Calculator) []cart.Item {
	items := []cart.Item{
		taxableItem(100, 10),
		untaxableItem(100, 20),
		taxableItem(100, 30),
	}
	items = c.SalesTax(items)
	items[2].Status = cart.StatusCancelled
	return items
}

func TestSalesTax(t *testing.T) {
	calc := NewCalculator(testRate)

	items := make([]cart.Item, 0, 20)
	for range 15 {
		items = append(items, taxableItem(100, 10))
	}
	for range 5 {
		items = append(items, untaxableItem(100, 10))
	}

	out := calc.SalesTax(items)
	require.Len(t, out, 20)

	sumTax := decimal.Zero
	sumPrice := decimal.Zero
	for _, item := range out {
		sumTax = sumTax.Add(item.TotalTax)
		sumPrice = sumPrice.Add(item.TotalPrice)
	}

	// tax = price * qty * (rate/100) * 100 for each of the 15 taxable lines
	wantTax := decimal.NewFromInt(100 * 10).Mul(testRate.Div(decimal.NewFromInt(100))).Mul(decimal.NewFromInt(100)).Mul(decimal.NewFromInt(15))
	assert.True(t, wantTax.Equal(sumTax), "tax: want %s, got %s", wantTax, sumTax)
	assert.True(t, decimal.NewFromInt(100*10*20).Equal(sumPrice))
}

func TestSalesTax_SetsDerivedFields(t *testing.T) {
	calc := NewCalculator(testRate)

	out := calc.SalesTax([]cart.Item{taxableItem(100, 2)})
	require.Len(t, out, 1)

	assert.True(t, decimal.NewFromInt(100).Equal(out[0].PurchasePrice))
	assert.True(t, decimal.NewFromInt(200).Equal(out[0].TotalPrice))
	assert.True(t, decimal.NewFromInt(1600).Equal(out[0].TotalTax))
	assert.True(t, decimal.NewFromInt(1800).Equal(out[0].PriceWithTax))
}

func TestSalesTax_Empty(t *testing.T) {
	calc := NewCalculator(testRate)

	assert.Empty(t, calc.SalesTax([]cart.Item{}))
}

func TestSalesTax_NilPassthrough(t *testing.T) {
	calc := NewCalculator(testRate)

	assert.Nil(t, calc.SalesTax(nil))
}

func TestOrderTotals_Mixed(t *testing.T) {
	calc := NewCalculator(testRate)
	items := mixedOrderItems(calc)

	totals := calc.OrderTotals(items)

	wantTax := decimal.NewFromInt(100 * 10).Mul(testRate.Div(decimal.NewFromInt(100))).Mul(decimal.NewFromInt(100))
	wantTotal := decimal.NewFromInt(100*10 + 100*20)

	assert.True(t, wantTax.Equal(totals.TotalTax), "tax: want %s, got %s", wantTax, totals.TotalTax)
	assert.True(t, wantTotal.Equal(totals.Total))
	assert.True(t, wantTotal.Add(wantTax).Equal(totals.TotalWithTax))
}

func TestOrderTotals_TaxableOnly(t *testing.T) {
	calc := NewCalculator(testRate)
	items := calc.SalesTax([]cart.Item{taxableItem(100, 10)})

	totals := calc.OrderTotals(items)

	wantTax := decimal.NewFromInt(100 * 10).Mul(testRate)
	assert.True(t, decimal.NewFromInt(1000).Equal(totals.Total))
	assert.True(t, wantTax.Equal(totals.TotalTax))
	assert.True(t, decimal.NewFromInt(1000).Add(wantTax).Equal(totals.TotalWithTax))
}

func TestOrderTotals_UntaxableOnly(t *testing.T) {
	calc := NewCalculator(testRate)
	items := calc.SalesTax([]cart.Item{untaxableItem(100, 20)})

	totals := calc.OrderTotals(items)

	assert.True(t, decimal.Zero.Equal(totals.TotalTax))
	assert.True(t, decimal.NewFromInt(2000).Equal(totals.Total))
	assert.True(t, decimal.NewFromInt(2000).Equal(totals.TotalWithTax))
}

func TestOrderTotals_NoCancelled(t *testing.T) {
	calc := NewCalculator(testRate)
	items := mixedOrderItems(calc)
	items[2].Status = cart.StatusProcessing

	totals := calc.OrderTotals(items)

	assert.True(t, decimal.NewFromInt(3000).Equal(totals.Total))
	// both taxable lines now contribute
	wantTax := decimal.NewFromInt(100 * 10).Mul(testRate).Add(decimal.NewFromInt(100 * 30).Mul(testRate))
	assert.True(t, wantTax.Equal(totals.TotalTax))
}

func TestOrderTotals_Idempotent(t *testing.T) {
	calc := NewCalculator(testRate)
	items := mixedOrderItems(calc)

	first := calc.OrderTotals(items)
	second := calc.OrderTotals(items)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.TotalTax.Equal(second.TotalTax))
	assert.True(t, first.TotalWithTax.Equal(second.TotalWithTax))
}

func TestOrderTotals_VariedRate(t *testing.T) {
	for _, rate := range []int64{0, 5, 10, 25} {
		calc := NewCalculator(decimal.NewFromInt(rate))
		items := calc.SalesTax([]cart.Item{taxableItem(100, 10)})

		totals := calc.OrderTotals(items)

		wantTax := decimal.NewFromInt(100 * 10).Mul(decimal.NewFromInt(rate))
		assert.True(t, wantTax.Equal(totals.TotalTax), "rate %d", rate)
	}
}

func TestOrderTotals_Empty(t *testing.T) {
	calc := NewCalculator(testRate)

	totals := calc.OrderTotals(nil)

	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.TotalTax.IsZero())
	assert.True(t, totals.TotalWithTax.IsZero())
}
