// Package store holds the last-fetched snapshot of each entity collection.
package store

import (
	"sync"

	"github.com/cajapos/caja/pkg/catalog"
)

// Store owns the raw collections. Each collection is replaced wholesale on a
// successful fetch and never patched incrementally; a failed fetch for one
// kind leaves the others untouched. Accessors return the snapshot slice as-is,
// so callers must treat it as read-only.
type Store struct {
	mu            sync.RWMutex
	products      []catalog.Product
	categories    []catalog.Category
	subcategories []catalog.Subcategory
	tickets       []catalog.Ticket
	listeners     []func()
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Subscribe registers fn to run after every collection replacement. Listeners
// are invoked synchronously on the replacing goroutine, outside the lock.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

// ReplaceProducts swaps the product collection.
func (s *Store) ReplaceProducts(rows []catalog.Product) {
	s.mu.Lock()
	s.products = rows
	s.mu.Unlock()
	s.notify()
}

// ReplaceCategories swaps the category collection.
func (s *Store) ReplaceCategories(rows []catalog.Category) {
	s.mu.Lock()
	s.categories = rows
	s.mu.Unlock()
	s.notify()
}

// ReplaceSubcategories swaps the subcategory collection.
func (s *Store) ReplaceSubcategories(rows []catalog.Subcategory) {
	s.mu.Lock()
	s.subcategories = rows
	s.mu.Unlock()
	s.notify()
}

// ReplaceTickets swaps the ticket collection.
func (s *Store) ReplaceTickets(rows []catalog.Ticket) {
	s.mu.Lock()
	s.tickets = rows
	s.mu.Unlock()
	s.notify()
}

// Products returns the current product snapshot.
func (s *Store) Products() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// Categories returns the current category snapshot.
func (s *Store) Categories() []catalog.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// Subcategories returns the current subcategory snapshot.
func (s *Store) Subcategories() []catalog.Subcategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subcategories
}

// Tickets returns the current ticket snapshot.
func (s *Store) Tickets() []catalog.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tickets
}

// CategoryByID looks up a category in the current snapshot.
func (s *Store) CategoryByID(id int64) (catalog.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return catalog.Category{}, false
}
