package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddAccumulates(t *testing.T) {
	c := New(DefaultCatalog())

	require.NoError(t, c.Add("mug", 1))
	require.NoError(t, c.Add("tee", 2))
	require.NoError(t, c.Add("mug", 2))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "mug", items[0].Product.ID, "first added stays first")
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "tee", items[1].Product.ID)
	assert.Equal(t, 5, c.ItemCount())
	assert.Equal(t, int64(3*1250+2*1999), c.Subtotal())
}

func TestCart_AddRejects(t *testing.T) {
	c := New(DefaultCatalog())

	assert.ErrorIs(t, c.Add("nope", 1), ErrUnknownProduct)
	assert.ErrorIs(t, c.Add("mug", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add("mug", -3), ErrInvalidQuantity)
	assert.Empty(t, c.Items())
}

func TestCart_SetQuantity(t *testing.T) {
	c := New(DefaultCatalog())
	require.NoError(t, c.Add("cap", 4))

	require.NoError(t, c.SetQuantity("cap", 1))
	assert.Equal(t, 1, c.ItemCount())

	require.NoError(t, c.SetQuantity("tote", 2))
	assert.Equal(t, int64(1500+2*899), c.Subtotal())

	require.NoError(t, c.SetQuantity("cap", 0))
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "tote", items[0].Product.ID)

	assert.ErrorIs(t, c.SetQuantity("tote", -1), ErrInvalidQuantity)
	assert.ErrorIs(t, c.SetQuantity("ghost", 1), ErrUnknownProduct)
}

func TestCart_Remove(t *testing.T) {
	c := New(DefaultCatalog())
	require.NoError(t, c.Add("hoodie", 1))

	c.Remove("hoodie")
	c.Remove("hoodie")

	assert.Zero(t, c.ItemCount())
	assert.Zero(t, c.Subtotal())
}

func TestCart_ConcurrentAdds(t *testing.T) {
	c := New(DefaultCatalog())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Add("tee", 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.ItemCount())
}

func TestCatalog(t *testing.T) {
	cat := NewCatalog([]Product{
		{ID: "a", Name: "A", PriceCents: 100},
		{ID: "a", Name: "dup", PriceCents: 1},
		{ID: "b", Name: "B", PriceCents: 200},
	})

	assert.Len(t, cat.Products(), 2)
	p, ok := cat.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "A", p.Name)
	_, ok = cat.Lookup("z")
	assert.False(t, ok)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$19.99", FormatCents(1999))
	assert.Equal(t, "$0.05", FormatCents(5))
	assert.Equal(t, "$100.00", FormatCents(10000))
	assert.Equal(t, "-$1.50", FormatCents(-150))
}
