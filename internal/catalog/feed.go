package catalog

import (
	"context"
	"sync"

	"github.com/miradev/mira/internal/domain"
)

// Feed caches the two product lists the app renders: the storefront list
// (in-stock only) and the admin list (everything). Both are lazily loaded
// from the store and kept until Invalidate is called, which every product
// mutation must do so that stale snapshots never outlive a write.
type Feed struct {
	store domain.ProductStore

	mu               sync.Mutex
	storefront       []domain.Product
	admin            []domain.Product
	storefrontLoaded bool
	adminLoaded      bool
}

// NewFeed creates a feed backed by the given store.
func NewFeed(store domain.ProductStore) *Feed {
	return &Feed{store: store}
}

// Storefront returns the in-stock products, newest first.
func (f *Feed) Storefront(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.storefrontLoaded {
		products, err := f.store.ListInStockProducts(ctx)
		if err != nil {
			return nil, err
		}
		f.storefront = products
		f.storefrontLoaded = true
	}
	return f.storefront, nil
}

// Admin returns all products, newest first, including out-of-stock ones.
func (f *Feed) Admin(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.adminLoaded {
		products, err := f.store.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		f.admin = products
		f.adminLoaded = true
	}
	return f.admin, nil
}

// Invalidate drops both cached lists. Callers must invoke it after every
// create, update and delete so the storefront and the admin table reload
// together on their next render.
func (f *Feed) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.storefront = nil
	f.admin = nil
	f.storefrontLoaded = false
	f.adminLoaded = false
}
