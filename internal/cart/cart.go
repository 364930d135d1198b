// Package cart holds the demo product catalog and an in-memory shopping cart.
// Nothing here talks to the server.
package cart

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrUnknownProduct  = errors.New("unknown product")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Product is a catalog entry. Prices are in cents.
type Product struct {
	ID         string
	Name       string
	PriceCents int64
}

// Catalog is an immutable product list.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

// NewCatalog indexes products by ID. Later duplicates are ignored.
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{byID: make(map[string]Product, len(products))}
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = p
		c.products = append(c.products, p)
	}
	return c
}

// DefaultCatalog is the fixed demo catalog shown by the shop view.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Product{
		{ID: "tee", Name: "Cotton T-Shirt", PriceCents: 1999},
		{ID: "mug", Name: "Ceramic Mug", PriceCents: 1250},
		{ID: "cap", Name: "Baseball Cap", PriceCents: 1500},
		{ID: "tote", Name: "Canvas Tote Bag", PriceCents: 899},
		{ID: "hoodie", Name: "Zip Hoodie", PriceCents: 4999},
	})
}

// Products returns the catalog in display order.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// Lookup finds a product by ID.
func (c *Catalog) Lookup(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Line is one product in the cart.
type Line struct {
	Product  Product
	Quantity int
}

// TotalCents is price times quantity.
func (l Line) TotalCents() int64 {
	return l.Product.PriceCents * int64(l.Quantity)
}

// Cart is safe for concurrent use.
type Cart struct {
	mu      sync.Mutex
	catalog *Catalog
	qty     map[string]int
	added   map[string]int
	seq     int
}

// New returns an empty cart over catalog.
func New(catalog *Catalog) *Cart {
	return &Cart{catalog: catalog, qty: map[string]int{}, added: map[string]int{}}
}

// Add increases the quantity of productID by qty.
func (c *Cart) Add(productID string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if _, ok := c.catalog.Lookup(productID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, in := c.qty[productID]; !in {
		c.seq++
		c.added[productID] = c.seq
	}
	c.qty[productID] += qty
	return nil
}

// Remove drops productID entirely. Removing an absent product is a no-op.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.qty, productID)
	delete(c.added, productID)
}

// SetQuantity replaces the quantity. Zero removes the line.
func (c *Cart) SetQuantity(productID string, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	if qty == 0 {
		c.Remove(productID)
		return nil
	}
	if _, ok := c.catalog.Lookup(productID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, in := c.qty[productID]; !in {
		c.seq++
		c.added[productID] = c.seq
	}
	c.qty[productID] = qty
	return nil
}

// Items returns the lines in the order products were first added.
func (c *Cart) Items() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]Line, 0, len(c.qty))
	for id, q := range c.qty {
		p, _ := c.catalog.Lookup(id)
		lines = append(lines, Line{Product: p, Quantity: q})
	}
	sort.Slice(lines, func(i, j int) bool {
		return c.added[lines[i].Product.ID] < c.added[lines[j].Product.ID]
	})
	return lines
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, q := range c.qty {
		n += q
	}
	return n
}

// Subtotal is the cart total in cents.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Items() {
		total += l.TotalCents()
	}
	return total
}

// FormatCents renders cents as dollars, e.g. 1999 -> "$19.99".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
