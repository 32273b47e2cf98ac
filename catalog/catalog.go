package catalog

import (
	"log"
	"sync/atomic"

	"verbena/models"
)

// Catalog holds the current immutable product snapshot. Refreshes build a
// fresh slice and swap the pointer, so concurrent readers always see a
// complete catalog.
type Catalog struct {
	snapshot atomic.Pointer[[]models.Product]
	path     string
}

// New returns a Catalog bound to a CSV source path, loaded once.
func New(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromProducts builds a Catalog around an already-loaded product list.
func NewFromProducts(products []models.Product) *Catalog {
	c := &Catalog{}
	c.Swap(products)
	return c
}

// Products returns the current snapshot. Callers must treat it as read-only.
func (c *Catalog) Products() []models.Product {
	p := c.snapshot.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Swap atomically replaces the snapshot.
func (c *Catalog) Swap(products []models.Product) {
	c.snapshot.Store(&products)
}

// Reload re-reads the CSV source and swaps in the result. On failure the
// previous snapshot stays in place.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return nil
	}
	products, err := Load(c.path)
	if err != nil {
		return err
	}
	c.Swap(products)
	log.Printf("catalog: loaded %d products from %s", len(products), c.path)
	return nil
}
