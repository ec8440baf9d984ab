package cart

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miradev/mira/internal/domain"
)

func testProduct(idByte byte, name, price string) domain.Product {
	var id [16]byte
	id[15] = idByte
	return domain.Product{
		ID:      pgtype.UUID{Bytes: id, Valid: true},
		Name:    name,
		Price:   decimal.RequireFromString(price),
		InStock: true,
	}
}

func TestCart_AddItemMergesQuantity(t *testing.T) {
	c := &Cart{}
	p1 := testProduct(1, "Oud Perfume", "10.00")
	p2 := testProduct(2, "Rose Soap", "5.00")

	c.AddItem(p1)
	c.AddItem(p1)
	c.AddItem(p2)

	items := c.Items()
	require.Len(t, items, 2, "same product merges into one line")
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 3, c.Count())
	assert.True(t, c.Total().Equal(decimal.RequireFromString("25.00")))
}

func TestCart_RemoveItemDropsWholeLine(t *testing.T) {
	c := &Cart{}
	p1 := testProduct(1, "Oud Perfume", "10.00")
	p2 := testProduct(2, "Rose Soap", "5.00")

	c.AddItem(p1)
	c.AddItem(p1)
	c.AddItem(p2)

	c.RemoveItem(p1.ID.String())

	items := c.Items()
	require.Len(t, items, 1, "removal drops the whole line, not one unit")
	assert.Equal(t, p2.ID.String(), items[0].ProductID)
	assert.Equal(t, 1, c.Count())
	assert.True(t, c.Total().Equal(decimal.RequireFromString("5.00")))
}

func TestCart_RemoveUnknownIsNoop(t *testing.T) {
	c := &Cart{}
	c.AddItem(testProduct(1, "Oud Perfume", "10.00"))

	c.RemoveItem("no-such-id")

	assert.Equal(t, 1, c.Count())
}

func TestCart_KeepsInsertionOrder(t *testing.T) {
	c := &Cart{}
	first := testProduct(1, "First", "1.00")
	second := testProduct(2, "Second", "2.00")
	third := testProduct(3, "Third", "3.00")

	c.AddItem(first)
	c.AddItem(second)
	c.AddItem(third)
	c.AddItem(first) // quantity bump must not reorder

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "First", items[0].Name)
	assert.Equal(t, "Second", items[1].Name)
	assert.Equal(t, "Third", items[2].Name)
}

func TestCart_PriceFrozenAtAddTime(t *testing.T) {
	c := &Cart{}
	p := testProduct(1, "Oud Perfume", "10.00")
	c.AddItem(p)

	// A catalog price change after the fact must not move the cart total.
	p.Price = decimal.RequireFromString("99.00")

	assert.True(t, c.Total().Equal(decimal.RequireFromString("10.00")))
}

func TestCart_ItemsReturnsCopy(t *testing.T) {
	c := &Cart{}
	c.AddItem(testProduct(1, "Oud Perfume", "10.00"))

	items := c.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, c.Count())
}

func TestManager_GetCreatesPerToken(t *testing.T) {
	m := NewManager()

	a := m.Get("token-a")
	b := m.Get("token-b")
	require.NotNil(t, a)
	require.NotNil(t, b)

	a.AddItem(testProduct(1, "Oud Perfume", "10.00"))

	assert.Equal(t, 1, a.Count())
	assert.Equal(t, 0, b.Count(), "carts are isolated per token")
	assert.Same(t, a, m.Get("token-a"), "same token returns the same cart")
}

func TestManager_LookupDoesNotCreate(t *testing.T) {
	m := NewManager()

	_, ok := m.Lookup("missing")
	assert.False(t, ok)

	m.Get("present")
	_, ok = m.Lookup("present")
	assert.True(t, ok)
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
