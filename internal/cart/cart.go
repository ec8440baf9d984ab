// Package cart holds the in-memory, session-scoped shopping carts.
// Carts live only for the lifetime of the process and are never persisted;
// a browser session is tied to its cart through an opaque cookie token.
package cart

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/miradev/mira/internal/domain"
)

// LineItem is one cart row. Name, price and image are copied from the
// product at add time; a later catalog price change does not touch lines
// already in a cart, so checkout totals never shift silently.
type LineItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	ImageURL  string
}

// Subtotal returns price multiplied by quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is a single session's cart. At most one line item exists per product
// identifier; items keep their insertion order across quantity changes.
type Cart struct {
	mu    sync.Mutex
	items []LineItem
}

// AddItem merges the product into the cart: an existing line's quantity is
// incremented by one, otherwise a new line with quantity 1 is appended.
func (c *Cart) AddItem(p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := p.ID.String()
	for i := range c.items {
		if c.items[i].ProductID == id {
			c.items[i].Quantity++
			return
		}
	}

	c.items = append(c.items, LineItem{
		ProductID: id,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
		ImageURL:  p.ImageURL.String,
	})
}

// RemoveItem deletes the whole line matching the product identifier.
// Removing an unknown identifier is a no-op; there is no partial decrement.
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return items
}

// Total recomputes the sum of line subtotals on every read.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, li := range c.items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// Count returns the sum of quantities, used for the header badge.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, li := range c.items {
		count += li.Quantity
	}
	return count
}

// Manager owns every live cart, keyed by session token.
type Manager struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewManager creates an empty cart manager.
func NewManager() *Manager {
	return &Manager{carts: make(map[string]*Cart)}
}

// Get returns the cart for token, creating it on first use.
func (m *Manager) Get(token string) *Cart {
	m.mu.RLock()
	c, ok := m.carts[token]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[token]; ok {
		return c
	}
	c = &Cart{}
	m.carts[token] = c
	return c
}

// Lookup returns the cart for token without creating one.
func (m *Manager) Lookup(token string) (*Cart, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[token]
	return c, ok
}

// GenerateToken generates a cryptographically secure cart token.
// Uses 32 bytes of random data encoded as base64 URL-safe string.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}
