package catalog

import "sync/atomic"

// Store holds the catalog snapshot currently served. Readers take one
// snapshot per request; reloads swap the whole snapshot, so a catalog is
// never mutated while it is being read.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore returns a store serving c. A nil c is replaced by an empty catalog.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.Swap(c)
	return s
}

// Load returns the current snapshot. It is never nil.
func (s *Store) Load() *Catalog {
	return s.current.Load()
}

// Swap installs c as the current snapshot and returns the previous one.
func (s *Store) Swap(c *Catalog) *Catalog {
	if c == nil {
		c = New()
	}
	return s.current.Swap(c)
}
