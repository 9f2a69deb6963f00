// Package catalog holds the Category→Products mapping behind the product
// selection form and the synchronizer that turns a selected category into
// the option list of the dependent product dropdown.
package catalog

// Category is the grouping key selected in the category dropdown. The empty
// category is the "nothing selected" state and is never a catalog key.
type Category string

// Product is a selectable leaf value scoped to a category.
type Product string

// Entry is one category together with its ordered products.
type Entry struct {
	Category Category
	Products []Product
}

// Catalog is an ordered, immutable mapping from category to products.
// A nil *Catalog behaves as an empty catalog.
type Catalog struct {
	order    []Category
	products map[Category][]Product
}

// New builds a catalog from entries in the given order. When a category is
// repeated, the later product list replaces the earlier one and the
// category keeps the position of its first occurrence. Entries with an
// empty category are ignored.
func New(entries ...Entry) *Catalog {
	c := &Catalog{products: make(map[Category][]Product, len(entries))}
	for _, e := range entries {
		if e.Category == "" {
			continue
		}
		if _, seen := c.products[e.Category]; !seen {
			c.order = append(c.order, e.Category)
		}
		c.products[e.Category] = append([]Product(nil), e.Products...)
	}
	return c
}

// Lookup returns a copy of the products for category. ok is false when the
// catalog has no entry for it; a present category may still have zero
// products.
func (c *Catalog) Lookup(category Category) (products []Product, ok bool) {
	if c == nil {
		return nil, false
	}
	p, ok := c.products[category]
	if !ok {
		return nil, false
	}
	return append([]Product(nil), p...), true
}

// Has reports whether the catalog has an entry for category.
func (c *Catalog) Has(category Category) bool {
	if c == nil {
		return false
	}
	_, ok := c.products[category]
	return ok
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// ProductCount returns the number of products across all categories.
func (c *Catalog) ProductCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, p := range c.products {
		n += len(p)
	}
	return n
}

// Categories returns the categories in catalog order.
func (c *Catalog) Categories() []Category {
	if c == nil {
		return nil
	}
	return append([]Category(nil), c.order...)
}

// Entries returns a copy of every entry in catalog order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	entries := make([]Entry, 0, len(c.order))
	for _, cat := range c.order {
		entries = append(entries, Entry{
			Category: cat,
			Products: append([]Product(nil), c.products[cat]...),
		})
	}
	return entries
}
